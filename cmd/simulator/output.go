package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"prouni-simulator/internal/backend"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/models"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	titleColor = color.New(color.FgYellow)
	hintColor  = color.New(color.FgCyan)
)

const timeLayout = "02/01/2006 15:04"

func printResult(w io.Writer, rec *models.OutcomeRecord) {
	if rec.Eligible {
		okColor.Fprintln(w, "\n✔ Elegível")
	} else {
		failColor.Fprintln(w, "\n✘ Não elegível")
	}
	if rec.Message != "" {
		fmt.Fprintln(w, rec.Message)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{"Simulação", rec.ID})
	table.Append([]string{"Data", rec.CreatedAt.Local().Format(timeLayout)})
	table.Append([]string{"Motor", string(rec.Engine)})
	table.Append([]string{"Pontuação", formatScore(rec.Score)})
	if rec.ExamAverage != nil {
		table.Append([]string{"Média ENEM", formatScore(*rec.ExamAverage)})
	}
	if rec.Classification != "" {
		table.Append([]string{"Classificação", rec.Classification})
	}
	if rec.CutoffScore != nil {
		table.Append([]string{"Nota de corte", formatScore(*rec.CutoffScore)})
	}
	if rec.ScoreDifference != nil {
		table.Append([]string{"Diferença", formatScore(*rec.ScoreDifference)})
	}
	table.Render()

	if b := rec.Breakdown; b != nil {
		titleColor.Fprintln(w, "\nPontos por critério")
		bt := tablewriter.NewWriter(w)
		bt.SetHeader([]string{"Critério", "Pontos"})
		bt.Append([]string{"Renda per capita (" + formatScore(b.PerCapitaIncome) + ")", strconv.Itoa(b.Income)})
		bt.Append([]string{"Nota do ENEM", strconv.Itoa(b.Exam)})
		bt.Append([]string{"Escola pública", strconv.Itoa(b.School)})
		bt.Append([]string{"Idade", strconv.Itoa(b.Age)})
		bt.Append([]string{"PcD", strconv.Itoa(b.Disability)})
		bt.SetFooter([]string{"Total", strconv.Itoa(b.Total())})
		bt.Render()
	}
}

func printRecommendations(w io.Writer, recs []string) {
	if len(recs) == 0 {
		return
	}
	titleColor.Fprintln(w, "\nPróximos passos")
	for _, r := range recs {
		hintColor.Fprintf(w, "  • %s\n", r)
	}
}

func printRecords(w io.Writer, recs []*models.OutcomeRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "Nenhuma simulação encontrada.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Data", "Motor", "Resultado", "Pontuação", "Classificação"})
	table.SetAutoWrapText(false)
	for _, rec := range recs {
		verdict := "Não elegível"
		if rec.Eligible {
			verdict = "Elegível"
		}
		table.Append([]string{
			rec.ID,
			rec.CreatedAt.Local().Format(timeLayout),
			string(rec.Engine),
			verdict,
			formatScore(rec.Score),
			rec.Classification,
		})
	}
	table.Render()
}

func printCourses(w io.Writer, courses []backend.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "Nenhum curso encontrado.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Curso", "Grau", "Turno", "Nota mínima", "Nota máxima"})
	table.SetAutoWrapText(false)
	for _, c := range courses {
		table.Append([]string{
			strconv.Itoa(c.ID),
			c.Name,
			deref(c.Degree),
			deref(c.Shift),
			formatScore(c.MinScore),
			formatScore(c.MaxScore),
		})
	}
	table.Render()
}

func printCourse(w io.Writer, c *backend.Course) {
	titleColor.Fprintln(w, c.Name)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{"Curso", strconv.Itoa(c.ID)})
	table.Append([]string{"Instituição", strconv.Itoa(c.InstitutionID)})
	table.Append([]string{"Grau", deref(c.Degree)})
	table.Append([]string{"Turno", deref(c.Shift)})
	table.Append([]string{"Nota mínima", formatScore(c.MinScore)})
	table.Append([]string{"Nota máxima", formatScore(c.MaxScore)})
	table.Render()

	wt := tablewriter.NewWriter(w)
	wt.SetHeader([]string{"Área", "Peso"})
	wt.Append([]string{"Ciências da Natureza", formatScore(c.WeightNatural)})
	wt.Append([]string{"Ciências Humanas", formatScore(c.WeightHuman)})
	wt.Append([]string{"Linguagens", formatScore(c.WeightLanguage)})
	wt.Append([]string{"Matemática", formatScore(c.WeightMath)})
	wt.Append([]string{"Redação", formatScore(c.WeightEssay)})
	wt.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// printError writes the user-facing message, plus one line per invalid field.
func printError(w io.Writer, err error) {
	var stdErr *apperrors.StandardError
	if !apperrors.As(err, &stdErr) {
		failColor.Fprintf(w, "Erro: %v\n", err)
		return
	}

	failColor.Fprintf(w, "Erro: %s\n", stdErr.Message)
	for _, f := range stdErr.Fields {
		fmt.Fprintf(w, "  - %s: %s\n", f.Field, f.Message)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
