package remote

import (
	"context"
	"strings"

	"prouni-simulator/internal/backend"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/models"
)

// DirectBackend is the part of backend.Client the single-call protocol uses.
type DirectBackend interface {
	ClassifyDirect(ctx context.Context, req backend.DirectRequest) (*backend.DirectResponse, error)
}

// DirectClassifier sends all features in one request and gets a label back.
type DirectClassifier struct {
	backend DirectBackend
}

func NewDirectClassifier(b DirectBackend) *DirectClassifier {
	return &DirectClassifier{backend: b}
}

func (d *DirectClassifier) Classify(ctx context.Context, p models.NormalizedProfile) (*Classification, error) {
	resp, err := d.backend.ClassifyDirect(ctx, backend.DirectRequest{
		Age:                 p.Age,
		CompetitionModality: p.CompetitionModality,
		Disability:          p.Disability,
		Sex:                 string(p.Sex),
		Race:                string(p.Race),
		Region:              string(p.Region),
		TeachingModality:    string(p.TeachingModality),
		Shift:               string(p.Shift),
		Course:              p.Course,
		Institution:         p.Institution,
	})
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(resp.Classification)
	if label == "" {
		return nil, apperrors.NewNetworkError(backend.PathSimulaDireto, 200, "Resposta inválida do servidor", nil)
	}

	msg := resp.Message
	if msg == "" {
		msg = defaultMessage(label, p.Course, p.Institution)
	}

	return &Classification{
		Label:    label,
		Message:  msg,
		Approved: !IsNotEligible(label),
	}, nil
}
