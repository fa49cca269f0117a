package remote

import (
	"context"

	"prouni-simulator/internal/models"
)

// Engine adapts a Classifier to the orchestrator.
type Engine struct {
	classifier Classifier
	schema     models.ProfileSchema
}

// NewEngine wraps c; schema names the fields c needs from a profile.
func NewEngine(c Classifier, schema models.ProfileSchema) *Engine {
	return &Engine{classifier: c, schema: schema}
}

func (e *Engine) Kind() models.EngineKind { return models.EngineRemote }

func (e *Engine) Schema() models.ProfileSchema { return e.schema }

func (e *Engine) Evaluate(ctx context.Context, profile models.CandidateProfile) (*models.EngineResult, error) {
	c, err := e.classifier.Classify(ctx, profile.Normalize())
	if err != nil {
		return nil, err
	}

	res := &models.EngineResult{
		Engine:          models.EngineRemote,
		Eligible:        c.Approved,
		Classification:  c.Label,
		Message:         c.Message,
		CutoffScore:     c.CutoffScore,
		ScoreDifference: c.Difference,
	}
	if c.CandidateScore != nil {
		res.Score = *c.CandidateScore
	}
	if avg, ok := profile.CompositeExamScore(); ok {
		res.ExamAverage = &avg
	}
	return res, nil
}
