package models

import "time"

// EngineKind names the engine that produced an outcome.
type EngineKind string

const (
	EngineRules  EngineKind = "rules"
	EngineRemote EngineKind = "remote"
)

// ScoreBreakdown lists the points awarded per criterion by the rules engine.
type ScoreBreakdown struct {
	PerCapitaIncome float64 `json:"per_capita_income"`
	Income          int     `json:"income"`
	Exam            int     `json:"exam"`
	School          int     `json:"school"`
	Age             int     `json:"age"`
	Disability      int     `json:"disability"`
}

// Total is the unclamped sum.
func (b ScoreBreakdown) Total() int {
	return b.Income + b.Exam + b.School + b.Age + b.Disability
}

// EngineResult is what any engine hands back to the orchestrator.
type EngineResult struct {
	Engine          EngineKind
	Eligible        bool
	Score           float64
	ExamAverage     *float64
	Classification  string
	Message         string
	CutoffScore     *float64
	ScoreDifference *float64
	Breakdown       *ScoreBreakdown
}

// OutcomeRecord is one completed simulation. Immutable once created.
type OutcomeRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Profile CandidateProfile `json:"profile"`

	Engine          EngineKind      `json:"engine"`
	Eligible        bool            `json:"eligible"`
	Score           float64         `json:"score"`
	ExamAverage     *float64        `json:"exam_average,omitempty"`
	Classification  string          `json:"classification,omitempty"`
	Message         string          `json:"message,omitempty"`
	CutoffScore     *float64        `json:"cutoff_score,omitempty"`
	ScoreDifference *float64        `json:"score_difference,omitempty"`
	Breakdown       *ScoreBreakdown `json:"breakdown,omitempty"`
}

// Clone returns a deep copy; no pointer is shared with r.
func (r *OutcomeRecord) Clone() *OutcomeRecord {
	cp := *r
	cp.Profile = r.Profile.Clone()
	cp.ExamAverage = cloneFloat(r.ExamAverage)
	cp.CutoffScore = cloneFloat(r.CutoffScore)
	cp.ScoreDifference = cloneFloat(r.ScoreDifference)
	if r.Breakdown != nil {
		b := *r.Breakdown
		cp.Breakdown = &b
	}
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// NewOutcomeRecord copies an engine result and its profile into an unsaved record.
func NewOutcomeRecord(profile CandidateProfile, res *EngineResult) *OutcomeRecord {
	return &OutcomeRecord{
		Profile:         profile,
		Engine:          res.Engine,
		Eligible:        res.Eligible,
		Score:           res.Score,
		ExamAverage:     res.ExamAverage,
		Classification:  res.Classification,
		Message:         res.Message,
		CutoffScore:     res.CutoffScore,
		ScoreDifference: res.ScoreDifference,
		Breakdown:       res.Breakdown,
	}
}
