// Package remote adapts the externally hosted classification model.
package remote

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"prouni-simulator/internal/models"
)

// Classification is the protocol-independent answer of the model.
type Classification struct {
	Label          string
	Message        string
	Approved       bool
	CandidateScore *float64
	CutoffScore    *float64
	Difference     *float64
}

// Classifier is satisfied by every network protocol the model is reachable by.
type Classifier interface {
	Classify(ctx context.Context, profile models.NormalizedProfile) (*Classification, error)
}

// Labels meaning the candidate was not selected, already folded.
var notEligibleLabels = []string{
	"nao elegivel",
	"inelegivel",
	"not eligible",
	"ineligible",
	"nao selecionado",
	"not selected",
	"nao aprovado",
	"reprovado",
	"sem bolsa",
}

// IsNotEligible reports whether a label is one of the "not eligible" labels,
// ignoring case, accents and surrounding text after the label.
func IsNotEligible(label string) bool {
	folded := foldLabel(label)
	for _, l := range notEligibleLabels {
		if folded == l || strings.HasPrefix(folded, l+" ") {
			return true
		}
	}
	return false
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, out)
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}
