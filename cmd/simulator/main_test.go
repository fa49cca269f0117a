package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prouni-simulator/internal/backend"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	log = logger.NewNoOpLogger()
	os.Exit(m.Run())
}

// ==========================
// Command tree
// ==========================

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"simulate", "records", "courses", "serve", "login", "signup", "logout"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRecordsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range recordsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "get", "delete"} {
		assert.True(t, names[name], "expected records subcommand %q not found", name)
	}
}

func TestSimulateCommand_Flags(t *testing.T) {
	for _, name := range []string{"file", "idade", "sexo", "renda", "membros", "nota-enem", "escola", "nota-redacao", "json"} {
		assert.NotNil(t, simulateCmd.Flags().Lookup(name), "simulate should have --%s", name)
	}
	assert.Equal(t, "4", simulateCmd.Flags().Lookup("membros").DefValue)
}

// ==========================
// Profile flags
// ==========================

func TestProfileFromFlags(t *testing.T) {
	fs := simulateCmd.Flags()
	t.Cleanup(func() {
		for _, n := range []string{"idade", "sexo", "renda", "nota-enem", "escola"} {
			f := fs.Lookup(n)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	require.NoError(t, fs.Parse([]string{
		"--idade", "22", "--sexo", "Feminino", "--renda", "2400",
		"--nota-enem", "650", "--escola", "Publica",
	}))

	p, err := profileFromFlags(fs, nil)
	require.NoError(t, err)
	assert.Equal(t, 22, p.Age)
	assert.Equal(t, models.SexFemale, p.Sex)
	assert.Equal(t, 2400.0, p.FamilyIncome)
	assert.Equal(t, 4, p.FamilyMembers)
	require.NotNil(t, p.ExamScore)
	assert.Equal(t, 650.0, *p.ExamScore)
	assert.Nil(t, p.SubjectScores)
	assert.Equal(t, models.SchoolPublic, p.SchoolType)
}

func TestProfileFromFlags_PartialSubjectScores(t *testing.T) {
	fs := simulateCmd.Flags()
	t.Cleanup(func() {
		f := fs.Lookup("nota-ct")
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	require.NoError(t, fs.Parse([]string{"--nota-ct", "700"}))

	_, err := profileFromFlags(fs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--nota-redacao")
}

func TestProfileFromFlags_Stdin(t *testing.T) {
	fs := simulateCmd.Flags()
	t.Cleanup(func() {
		f := fs.Lookup("file")
		_ = f.Value.Set("")
		f.Changed = false
	})
	require.NoError(t, fs.Parse([]string{"--file", "-"}))

	in := strings.NewReader(`{"idade": 30, "notas": {"nota_ct": 700, "nota_ch": 680, "nota_lc": 660, "nota_mt": 720, "nota_redacao": 900}}`)
	p, err := profileFromFlags(fs, in)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Age)
	require.NotNil(t, p.SubjectScores)
	assert.Equal(t, 732.0, p.SubjectScores.Average())
}

// ==========================
// Output
// ==========================

func TestPrintResult_RulesOutcome(t *testing.T) {
	avg := 650.0
	rec := &models.OutcomeRecord{
		ID:          "0190a000-0000-7000-8000-000000000001",
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Engine:      models.EngineRules,
		Eligible:    true,
		Score:       85,
		ExamAverage: &avg,
		Message:     "Você tem boas chances!",
		Breakdown:   &models.ScoreBreakdown{PerCapitaIncome: 600, Income: 30, Exam: 25, School: 20, Age: 10},
	}

	var buf bytes.Buffer
	printResult(&buf, rec)
	printRecommendations(&buf, []string{"Fique atento aos prazos do ProUni"})

	out := buf.String()
	assert.Contains(t, out, "✔ Elegível")
	assert.Contains(t, out, "Você tem boas chances!")
	assert.Contains(t, out, "85")
	assert.Contains(t, out, "650")
	assert.Contains(t, out, "Renda per capita (600)")
	assert.Contains(t, out, "Fique atento aos prazos do ProUni")
}

func TestPrintResult_RemoteOutcome(t *testing.T) {
	cutoff, diff := 700.0, -12.5
	rec := &models.OutcomeRecord{
		ID:              "id-1",
		Engine:          models.EngineRemote,
		Eligible:        false,
		Score:           687.5,
		Classification:  "Não Selecionado",
		CutoffScore:     &cutoff,
		ScoreDifference: &diff,
	}

	var buf bytes.Buffer
	printResult(&buf, rec)

	out := buf.String()
	assert.Contains(t, out, "✘ Não elegível")
	assert.Contains(t, out, "Não Selecionado")
	assert.Contains(t, out, "687.5")
	assert.Contains(t, out, "-12.5")
	assert.NotContains(t, out, "Pontos por critério")
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	printRecords(&buf, nil)
	assert.Contains(t, buf.String(), "Nenhuma simulação encontrada.")

	buf.Reset()
	printRecords(&buf, []*models.OutcomeRecord{
		{ID: "id-2", Engine: models.EngineRules, Eligible: true, Score: 85},
		{ID: "id-1", Engine: models.EngineRemote, Classification: "Bolsa Integral", Eligible: true},
	})
	out := buf.String()
	assert.Contains(t, out, "id-2")
	assert.Contains(t, out, "Bolsa Integral")
	assert.Less(t, strings.Index(out, "id-2"), strings.Index(out, "id-1"))
}

func TestPrintCourses(t *testing.T) {
	var buf bytes.Buffer
	printCourses(&buf, nil)
	assert.Contains(t, buf.String(), "Nenhum curso encontrado.")

	shift := "Noturno"
	buf.Reset()
	printCourses(&buf, []backend.Course{
		{ID: 3, Name: "Medicina", Shift: &shift, MinScore: 760.2, MaxScore: 812.5},
	})
	out := buf.String()
	assert.Contains(t, out, "Medicina")
	assert.Contains(t, out, "Noturno")
	assert.Contains(t, out, "760.2")

	buf.Reset()
	printCourse(&buf, &backend.Course{ID: 3, Name: "Medicina", WeightMath: 2.5})
	assert.Contains(t, buf.String(), "Matemática")
	assert.Contains(t, buf.String(), "2.5")
}

func TestCoursesCommand_EndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cursos/", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"ID":3,"ID_instituicao":1,"nome_curso":"Direito","turno":"Noturno","nota_maxima":700,"nota_minima":640.5}]`))
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
backend:
  base_url: `+upstream.URL+`
logging:
  level: error
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "courses", "list", "--limit", "20"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Direito")
	assert.Contains(t, out.String(), "640.5")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, apperrors.NewValidationError([]apperrors.FieldError{
		{Field: "idade", Message: "Informe uma idade válida (14-100)"},
	}))
	assert.Contains(t, buf.String(), "idade: Informe uma idade válida (14-100)")

	buf.Reset()
	printError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "Erro: boom")
}

func TestCheckEmail(t *testing.T) {
	assert.NoError(t, checkEmail("ana@example.com"))

	err := checkEmail("ana@")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

// ==========================
// Wiring
// ==========================

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, 5, time.Millisecond, "test op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(func() error {
		calls++
		return errors.New("connection refused")
	}, 2, time.Millisecond, "test op")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "test op failed after 2 attempts")
}

func TestSimulateCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
store:
  driver: memory
  demo_mode: true
session:
  path: `+filepath.Join(dir, "session.json")+`
logging:
  level: error
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", cfgPath, "simulate",
		"--idade", "40", "--sexo", "Masculino", "--renda", "6000", "--membros", "2",
		"--nota-enem", "400", "--escola", "Privada",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "✘ Não elegível")
	assert.Contains(t, out.String(), "Tente melhorar sua nota do ENEM no próximo exame")
}
