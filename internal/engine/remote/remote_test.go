package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/auth"
	"prouni-simulator/internal/common/config"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/models"
)

// ==========================
// Mocks
// ==========================

type MockDirectBackend struct {
	mock.Mock
}

func (m *MockDirectBackend) ClassifyDirect(ctx context.Context, req backend.DirectRequest) (*backend.DirectResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.DirectResponse), args.Error(1)
}

type MockTwoStepBackend struct {
	mock.Mock
}

func (m *MockTwoStepBackend) SubmitComplementaryData(ctx context.Context, candidateID int, data backend.ComplementaryData) error {
	return m.Called(ctx, candidateID, data).Error(0)
}

func (m *MockTwoStepBackend) FetchResult(ctx context.Context, candidateID int) (*backend.ResultResponse, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.ResultResponse), args.Error(1)
}

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func createTestProfile() models.CandidateProfile {
	return models.CandidateProfile{
		Age:                 19,
		Sex:                 models.SexFemale,
		Race:                models.RaceBlack,
		Disability:          true,
		Region:              models.RegionNortheast,
		Shift:               models.ShiftFullTime,
		Course:              "Medicina",
		Institution:         "Universidade Federal de Pernambuco",
		InstitutionAcronym:  "UFPE",
		CompetitionModality: models.ModalityL10,
		TeachingModality:    models.TeachingInPerson,
		SubjectScores: &models.SubjectScores{
			NaturalSciences: 700, HumanSciences: 680, Languages: 660, Mathematics: 720, Essay: 900,
		},
	}
}

// ==========================
// Label folding
// ==========================

func TestIsNotEligible(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Não elegível", true},
		{"NAO ELEGIVEL", true},
		{"não-elegível", true},
		{"Inelegível", true},
		{"not eligible", true},
		{"Not Eligible for scholarship", true},
		{"  não   selecionado ", true},
		{"Bolsa Integral", false},
		{"Bolsa Parcial", false},
		{"Elegível", false},
		{"Selecionado", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNotEligible(tt.label), tt.label)
	}
}

// ==========================
// Direct protocol
// ==========================

func TestDirectClassifier_MapsFeatures(t *testing.T) {
	m := new(MockDirectBackend)
	m.On("ClassifyDirect", mock.Anything, mock.MatchedBy(func(r backend.DirectRequest) bool {
		return r.Age == 19 && r.Disability && r.Race == "Preta" && r.Region == "Nordeste" &&
			r.CompetitionModality == "L10" && r.Shift == "Integral" && r.Course == "Medicina"
	})).Return(&backend.DirectResponse{Classification: "Bolsa Integral", Message: "Parabéns!"}, nil)

	c, err := NewDirectClassifier(m).Classify(context.Background(), createTestProfile().Normalize())
	require.NoError(t, err)
	assert.True(t, c.Approved)
	assert.Equal(t, "Bolsa Integral", c.Label)
	assert.Equal(t, "Parabéns!", c.Message)
	m.AssertExpectations(t)
}

func TestDirectClassifier_AnyOtherLabelIsApproved(t *testing.T) {
	for _, label := range []string{"Bolsa Parcial", "Tier B", "Selecionado"} {
		m := new(MockDirectBackend)
		m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(&backend.DirectResponse{Classification: label}, nil)

		c, err := NewDirectClassifier(m).Classify(context.Background(), createTestProfile().Normalize())
		require.NoError(t, err)
		assert.True(t, c.Approved, label)
	}
}

func TestDirectClassifier_NotEligible(t *testing.T) {
	m := new(MockDirectBackend)
	m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(&backend.DirectResponse{Classification: "Não Elegível"}, nil)

	c, err := NewDirectClassifier(m).Classify(context.Background(), createTestProfile().Normalize())
	require.NoError(t, err)
	assert.False(t, c.Approved)
	assert.Contains(t, c.Message, "Medicina")
}

func TestDirectClassifier_DefaultMessages(t *testing.T) {
	m := new(MockDirectBackend)
	m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(&backend.DirectResponse{Classification: "Bolsa Parcial"}, nil).Once()
	m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(&backend.DirectResponse{Classification: "Bolsa Integral"}, nil).Once()

	d := NewDirectClassifier(m)
	partial, err := d.Classify(context.Background(), createTestProfile().Normalize())
	require.NoError(t, err)
	assert.Equal(t, "Com base no seu perfil, você tem chances de conseguir uma Bolsa Parcial (50%) no curso de Medicina na Universidade Federal de Pernambuco.", partial.Message)

	full, err := d.Classify(context.Background(), createTestProfile().Normalize())
	require.NoError(t, err)
	assert.Equal(t, "Parabéns! Com base no seu perfil, você tem grandes chances de conseguir uma Bolsa Integral (100%) no curso de Medicina na Universidade Federal de Pernambuco.", full.Message)
}

func TestDirectClassifier_EmptyLabelIsAnError(t *testing.T) {
	m := new(MockDirectBackend)
	m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(&backend.DirectResponse{}, nil)

	_, err := NewDirectClassifier(m).Classify(context.Background(), createTestProfile().Normalize())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestDirectClassifier_PropagatesNetworkError(t *testing.T) {
	netErr := apperrors.NewNetworkError("/simular-direto", 500, "Erro ao processar simulação", nil)
	m := new(MockDirectBackend)
	m.On("ClassifyDirect", mock.Anything, mock.Anything).Return(nil, netErr)

	_, err := NewDirectClassifier(m).Classify(context.Background(), createTestProfile().Normalize())
	assert.Same(t, netErr, err)
}

func TestDirectClassifier_AgainstHTTPBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"classificacao":"Bolsa Parcial","mensagem":"Boa sorte"}`))
	}))
	defer server.Close()

	client := backend.NewClient(config.BackendConfig{BaseURL: server.URL, Timeout: 1000}, logger.NewTestLogger(t), nil)
	e := NewEngine(NewDirectClassifier(client), models.SchemaRemoteDirect)

	res, err := e.Evaluate(context.Background(), createTestProfile())
	require.NoError(t, err)
	assert.Equal(t, models.EngineRemote, res.Engine)
	assert.True(t, res.Eligible)
	assert.Equal(t, "Bolsa Parcial", res.Classification)
	assert.Equal(t, "Boa sorte", res.Message)
	require.NotNil(t, res.ExamAverage)
	assert.InDelta(t, 732.0, *res.ExamAverage, 1e-9)
}

// ==========================
// Two-step protocol
// ==========================

func candidateCtx(id int) context.Context {
	return auth.WithIdentity(context.Background(), auth.ForCandidate(id))
}

func TestTwoStepClassifier_RequiresCandidate(t *testing.T) {
	m := new(MockTwoStepBackend)
	c := NewTwoStepClassifier(m, time.Millisecond, 3, logger.NewNoOpLogger())

	_, err := c.Classify(context.Background(), createTestProfile().Normalize())
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)

	_, err = c.Classify(auth.WithIdentity(context.Background(), auth.Identity{Owner: "visitor"}), createTestProfile().Normalize())
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	m.AssertNotCalled(t, "SubmitComplementaryData", mock.Anything, mock.Anything, mock.Anything)
}

func TestTwoStepClassifier_SubmitThenFetch(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 42, mock.MatchedBy(func(d backend.ComplementaryData) bool {
		return d.CompetitionModality == "L10" && d.Institution.Acronym == "UFPE" &&
			d.Course.Shift == "Integral" && d.Scores != nil && d.Scores.Essay == 900
	})).Return(nil)
	m.On("FetchResult", mock.Anything, 42).Return(&backend.ResultResponse{
		Approved:       boolPtr(true),
		Message:        "Você foi aprovado",
		CandidateScore: floatPtr(736),
		CutoffScore:    floatPtr(701.5),
		Difference:     floatPtr(34.5),
	}, nil)

	c := NewTwoStepClassifier(m, time.Millisecond, 3, logger.NewNoOpLogger())
	got, err := c.Classify(candidateCtx(42), createTestProfile().Normalize())
	require.NoError(t, err)

	assert.True(t, got.Approved)
	assert.Equal(t, LabelSelected, got.Label)
	assert.Equal(t, "Você foi aprovado", got.Message)
	assert.Equal(t, 34.5, *got.Difference)
	m.AssertExpectations(t)
}

func TestTwoStepClassifier_PollsWhileAccepted(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 7, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 7).Return(nil, backend.ErrResultNotReady).Twice()
	m.On("FetchResult", mock.Anything, 7).Return(&backend.ResultResponse{Approved: boolPtr(false), Message: "Nota abaixo do corte"}, nil).Once()

	c := NewTwoStepClassifier(m, time.Millisecond, 5, logger.NewTestLogger(t))
	got, err := c.Classify(candidateCtx(7), createTestProfile().Normalize())
	require.NoError(t, err)

	assert.False(t, got.Approved)
	assert.Equal(t, LabelNotSelected, got.Label)
	m.AssertNumberOfCalls(t, "FetchResult", 3)
}

func TestTwoStepClassifier_GivesUpAfterMaxPolls(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 7, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 7).Return(nil, backend.ErrResultNotReady)

	c := NewTwoStepClassifier(m, time.Millisecond, 2, logger.NewNoOpLogger())
	_, err := c.Classify(candidateCtx(7), createTestProfile().Normalize())

	require.ErrorIs(t, err, apperrors.ErrNetwork)
	m.AssertNumberOfCalls(t, "FetchResult", 2)
}

func TestTwoStepClassifier_ContextCancelledWhilePolling(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 7, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 7).Return(nil, backend.ErrResultNotReady)

	ctx, cancel := context.WithTimeout(candidateCtx(7), 20*time.Millisecond)
	defer cancel()

	c := NewTwoStepClassifier(m, time.Hour, 10, logger.NewNoOpLogger())
	_, err := c.Classify(ctx, createTestProfile().Normalize())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)

	var stdErr *apperrors.StandardError
	require.True(t, apperrors.As(err, &stdErr))
	assert.Equal(t, "A consulta do resultado foi interrompida.", stdErr.Message)
	assert.Contains(t, stdErr.Details, "/resultados/7")
}

func TestTwoStepClassifier_CancelStopsPolling(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 7, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 7).Return(nil, backend.ErrResultNotReady).Run(func(args mock.Arguments) {
		args.Get(0).(context.Context).Value(cancelKey{}).(context.CancelFunc)()
	})

	ctx, cancel := context.WithCancel(candidateCtx(7))
	defer cancel()
	ctx = context.WithValue(ctx, cancelKey{}, cancel)

	c := NewTwoStepClassifier(m, time.Hour, 10, logger.NewNoOpLogger())
	_, err := c.Classify(ctx, createTestProfile().Normalize())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	m.AssertNumberOfCalls(t, "FetchResult", 1)
}

type cancelKey struct{}

func TestTwoStepClassifier_SubmitFailureStopsEarly(t *testing.T) {
	netErr := apperrors.NewNetworkError("/formulario/7", 500, "Erro ao salvar dados complementares.", nil)
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 7, mock.Anything).Return(netErr)

	c := NewTwoStepClassifier(m, time.Millisecond, 2, logger.NewNoOpLogger())
	_, err := c.Classify(candidateCtx(7), createTestProfile().Normalize())

	assert.Same(t, netErr, err)
	m.AssertNotCalled(t, "FetchResult", mock.Anything, mock.Anything)
}

func TestTwoStepClassifier_LabelOnlyResult(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 3, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 3).Return(&backend.ResultResponse{
		Classification: "Bolsa Parcial",
		Mensagem:       "A IA previu Bolsa Parcial",
	}, nil)

	c := NewTwoStepClassifier(m, time.Millisecond, 1, logger.NewNoOpLogger())
	got, err := c.Classify(candidateCtx(3), createTestProfile().Normalize())
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.Equal(t, "Bolsa Parcial", got.Label)
	assert.Equal(t, "A IA previu Bolsa Parcial", got.Message)
}

func TestTwoStepClassifier_EmptyResultIsAnError(t *testing.T) {
	m := new(MockTwoStepBackend)
	m.On("SubmitComplementaryData", mock.Anything, 3, mock.Anything).Return(nil)
	m.On("FetchResult", mock.Anything, 3).Return(&backend.ResultResponse{}, nil)

	c := NewTwoStepClassifier(m, time.Millisecond, 1, logger.NewNoOpLogger())
	_, err := c.Classify(candidateCtx(3), createTestProfile().Normalize())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

// ==========================
// Engine adapter
// ==========================

type stubClassifier struct {
	c   *Classification
	err error
}

func (s stubClassifier) Classify(context.Context, models.NormalizedProfile) (*Classification, error) {
	return s.c, s.err
}

func TestEngine_MapsTwoStepScores(t *testing.T) {
	e := NewEngine(stubClassifier{c: &Classification{
		Label: LabelSelected, Message: "ok", Approved: true,
		CandidateScore: floatPtr(736), CutoffScore: floatPtr(700), Difference: floatPtr(36),
	}}, models.SchemaRemoteTwoStep)

	assert.Equal(t, models.SchemaRemoteTwoStep, e.Schema())
	assert.Equal(t, models.EngineRemote, e.Kind())

	res, err := e.Evaluate(context.Background(), createTestProfile())
	require.NoError(t, err)
	assert.Equal(t, 736.0, res.Score)
	assert.Equal(t, 700.0, *res.CutoffScore)
	assert.Equal(t, 36.0, *res.ScoreDifference)
	assert.Nil(t, res.Breakdown)
}

func TestEngine_NeverFabricatesOnError(t *testing.T) {
	e := NewEngine(stubClassifier{err: apperrors.NewNetworkError("/x", 503, "indisponível", nil)}, models.SchemaRemoteDirect)

	res, err := e.Evaluate(context.Background(), createTestProfile())
	assert.Nil(t, res)
	assert.Equal(t, "indisponível", apperrors.UserMessage(err))
}
