// Package rules implements the local, deterministic ProUni eligibility scorer.
package rules

import (
	"github.com/shopspring/decimal"

	"prouni-simulator/internal/models"
)

// Result is the outcome of scoring one profile.
type Result struct {
	Score       int
	Eligible    bool
	ExamAverage *float64
	Breakdown   models.ScoreBreakdown
}

// Score evaluates a profile against DefaultPolicy.
func Score(p models.CandidateProfile) Result {
	return DefaultPolicy().Score(p)
}

// Score is pure: no I/O, no clock, no randomness.
func (pol Policy) Score(p models.CandidateProfile) Result {
	perCapita := perCapitaIncome(p)
	exam, hasExam := examScore(p)

	b := models.ScoreBreakdown{
		PerCapitaIncome: perCapita.Round(2).InexactFloat64(),
		Income:          pol.incomePoints(perCapita),
		School:          pol.schoolPoints(p.SchoolType),
		Age:             pol.agePoints(p.Age),
		Disability:      pol.disabilityPoints(p.Disability),
	}

	res := Result{Breakdown: b}
	if hasExam {
		res.Breakdown.Exam = pol.examPoints(exam)
		avg := exam.InexactFloat64()
		res.ExamAverage = &avg
	}

	res.Score = clamp(res.Breakdown.Total(), 0, 100)
	res.Eligible = res.Score >= pol.Cutoff
	return res
}

func perCapitaIncome(p models.CandidateProfile) decimal.Decimal {
	income := decimal.NewFromFloat(p.FamilyIncome)
	return income.Div(decimal.NewFromInt(int64(p.EffectiveFamilyMembers())))
}

// examScore is computed in decimal so a five-subject mean landing exactly
// on a tier boundary is not pushed below it by float rounding.
func examScore(p models.CandidateProfile) (decimal.Decimal, bool) {
	if p.ExamScore != nil {
		return decimal.NewFromFloat(*p.ExamScore), true
	}
	if s := p.SubjectScores; s != nil {
		sum := decimal.Sum(
			decimal.NewFromFloat(s.NaturalSciences),
			decimal.NewFromFloat(s.HumanSciences),
			decimal.NewFromFloat(s.Languages),
			decimal.NewFromFloat(s.Mathematics),
			decimal.NewFromFloat(s.Essay),
		)
		return sum.Div(decimal.NewFromInt(5)), true
	}
	return decimal.Zero, false
}

func (pol Policy) incomePoints(perCapita decimal.Decimal) int {
	for _, tier := range pol.IncomeTiers {
		if perCapita.LessThanOrEqual(pol.MinimumWage.Mul(tier.MaxMinimumWages)) {
			return tier.Points
		}
	}
	return 0
}

func (pol Policy) examPoints(score decimal.Decimal) int {
	for _, tier := range pol.ExamTiers {
		if score.GreaterThanOrEqual(tier.MinScore) {
			return tier.Points
		}
	}
	return 0
}

func (pol Policy) schoolPoints(t models.SchoolType) int {
	if t == models.SchoolPublic {
		return pol.PublicSchoolPoints
	}
	return 0
}

func (pol Policy) agePoints(age int) int {
	if age <= pol.YouthMaxAge {
		return pol.YouthPoints
	}
	return 0
}

func (pol Policy) disabilityPoints(disabled bool) int {
	if disabled {
		return pol.DisabilityPoints
	}
	return 0
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
