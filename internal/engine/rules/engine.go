package rules

import (
	"context"

	"prouni-simulator/internal/models"
)

const (
	MessageEligible    = "Você tem boas chances! Seu perfil se enquadra nos critérios do ProUni."
	MessageNotEligible = "Resultado não favorável. Você não atende todos os critérios necessários."
)

var (
	eligibleRecommendations = []string{
		"Mantenha seus documentos atualizados para a inscrição",
		"Fique atento aos prazos do ProUni",
		"Considere também o Fies como alternativa",
		"Verifique as instituições participantes na sua região",
	}
	notEligibleRecommendations = []string{
		"Tente melhorar sua nota do ENEM no próximo exame",
		"Considere bolsas de estudo privadas",
		"Verifique outros programas de financiamento estudantil",
		"Analise cursos técnicos como alternativa inicial",
	}
)

// Recommendations returns the next steps shown alongside a verdict.
func Recommendations(eligible bool) []string {
	src := notEligibleRecommendations
	if eligible {
		src = eligibleRecommendations
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Engine adapts the scorer to the orchestrator. It never suspends.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Kind() models.EngineKind { return models.EngineRules }

func (e *Engine) Schema() models.ProfileSchema { return models.SchemaRules }

func (e *Engine) Evaluate(_ context.Context, profile models.CandidateProfile) (*models.EngineResult, error) {
	res := e.policy.Score(profile)

	msg := MessageNotEligible
	if res.Eligible {
		msg = MessageEligible
	}
	breakdown := res.Breakdown

	return &models.EngineResult{
		Engine:      models.EngineRules,
		Eligible:    res.Eligible,
		Score:       float64(res.Score),
		ExamAverage: res.ExamAverage,
		Message:     msg,
		Breakdown:   &breakdown,
	}, nil
}
