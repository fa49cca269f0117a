package rules

import "github.com/shopspring/decimal"

// IncomeTier awards Points when per-capita income is at most
// MaxMinimumWages times the minimum wage.
type IncomeTier struct {
	MaxMinimumWages decimal.Decimal
	Points          int
}

// ExamTier awards Points when the exam score is at least MinScore.
type ExamTier struct {
	MinScore decimal.Decimal
	Points   int
}

// Policy holds every weight and threshold of the additive point system.
// Tiers are evaluated in order and the first match wins.
type Policy struct {
	MinimumWage        decimal.Decimal
	IncomeTiers        []IncomeTier
	ExamTiers          []ExamTier
	PublicSchoolPoints int
	YouthMaxAge        int
	YouthPoints        int
	DisabilityPoints   int
	Cutoff             int
}

// Program-year baseline minimum wage.
const DefaultMinimumWage = 1212

const DefaultCutoff = 60

func DefaultPolicy() Policy {
	return Policy{
		MinimumWage: decimal.NewFromInt(DefaultMinimumWage),
		IncomeTiers: []IncomeTier{
			{MaxMinimumWages: decimal.RequireFromString("1.5"), Points: 30},
			{MaxMinimumWages: decimal.NewFromInt(3), Points: 20},
		},
		ExamTiers: []ExamTier{
			{MinScore: decimal.NewFromInt(600), Points: 25},
			{MinScore: decimal.NewFromInt(500), Points: 15},
			{MinScore: decimal.NewFromInt(450), Points: 10},
		},
		PublicSchoolPoints: 20,
		YouthMaxAge:        25,
		YouthPoints:        10,
		DisabilityPoints:   15,
		Cutoff:             DefaultCutoff,
	}
}

// WithOverrides returns a copy with the non-zero values applied.
func (p Policy) WithOverrides(minimumWage, cutoff int) Policy {
	if minimumWage > 0 {
		p.MinimumWage = decimal.NewFromInt(int64(minimumWage))
	}
	if cutoff > 0 {
		p.Cutoff = cutoff
	}
	return p
}
