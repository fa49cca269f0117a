package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/auth"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/models"
)

// TwoStepBackend is the part of backend.Client the two-step protocol uses.
type TwoStepBackend interface {
	SubmitComplementaryData(ctx context.Context, candidateID int, data backend.ComplementaryData) error
	FetchResult(ctx context.Context, candidateID int) (*backend.ResultResponse, error)
}

// TwoStepClassifier submits the candidate's complementary data, then reads
// the computed result, polling while the backend answers 202 Accepted.
type TwoStepClassifier struct {
	backend      TwoStepBackend
	pollInterval time.Duration
	maxPolls     int
	logger       logger.Logger
}

func NewTwoStepClassifier(b TwoStepBackend, pollInterval time.Duration, maxPolls int, log logger.Logger) *TwoStepClassifier {
	if maxPolls < 1 {
		maxPolls = 1
	}
	return &TwoStepClassifier{
		backend:      b,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		logger:       log,
	}
}

func (c *TwoStepClassifier) Classify(ctx context.Context, p models.NormalizedProfile) (*Classification, error) {
	id, ok := auth.FromContext(ctx)
	if !ok || id.CandidateID <= 0 {
		return nil, apperrors.NewAuthenticationRequiredError("remote.two_step")
	}

	data := backend.ComplementaryData{
		CompetitionModality: p.CompetitionModality,
		Institution: backend.InstitutionData{
			Name:     p.Institution,
			Acronym:  p.InstitutionAcronym,
			Modality: string(p.TeachingModality),
		},
		Course: backend.CourseData{
			Name:  p.Course,
			Shift: string(p.Shift),
		},
		Scores: p.Scores,
	}
	if err := c.backend.SubmitComplementaryData(ctx, id.CandidateID, data); err != nil {
		return nil, err
	}

	res, err := c.awaitResult(ctx, id.CandidateID)
	if err != nil {
		return nil, err
	}

	return toClassification(res, p, fmt.Sprintf(backend.PathResult, id.CandidateID))
}

func (c *TwoStepClassifier) awaitResult(ctx context.Context, candidateID int) (*backend.ResultResponse, error) {
	for attempt := 1; ; attempt++ {
		res, err := c.backend.FetchResult(ctx, candidateID)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, backend.ErrResultNotReady) {
			return nil, err
		}
		if attempt >= c.maxPolls {
			return nil, apperrors.NewNetworkError(
				fmt.Sprintf(backend.PathResult, candidateID), 202,
				"O resultado ainda não está pronto. Tente novamente em instantes.", nil,
			)
		}

		c.logger.Debug("result not ready, polling again", map[string]interface{}{
			"candidateId": candidateID,
			"attempt":     attempt,
		})

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, apperrors.NewNetworkError(
				fmt.Sprintf(backend.PathResult, candidateID), 0,
				"A consulta do resultado foi interrompida.", ctx.Err(),
			)
		case <-timer.C:
		}
	}
}

func toClassification(res *backend.ResultResponse, p models.NormalizedProfile, endpoint string) (*Classification, error) {
	label := strings.TrimSpace(res.Classification)

	var approved bool
	switch {
	case res.Approved != nil:
		approved = *res.Approved
	case label != "":
		approved = !IsNotEligible(label)
	default:
		return nil, apperrors.NewNetworkError(endpoint, 200, "Resposta inválida do servidor", nil)
	}

	if label == "" {
		label = LabelNotSelected
		if approved {
			label = LabelSelected
		}
	}

	msg := res.Message
	if msg == "" {
		msg = res.Mensagem
	}
	if msg == "" {
		msg = defaultMessage(label, p.Course, p.Institution)
	}

	return &Classification{
		Label:          label,
		Message:        msg,
		Approved:       approved,
		CandidateScore: res.CandidateScore,
		CutoffScore:    res.CutoffScore,
		Difference:     res.Difference,
	}, nil
}
