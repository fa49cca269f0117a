package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/observability"
	"prouni-simulator/internal/engine/rules"
	"prouni-simulator/internal/models"
	"prouni-simulator/internal/simulation"
)

var simulateJSON bool

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one simulation",
	Long: "Reads a candidate profile from flags or from a JSON file (--file, '-' for stdin), " +
		"runs the configured engine and saves the outcome.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		profile, err := profileFromFlags(cmd.Flags(), cmd.InOrStdin())
		if err != nil {
			return err
		}

		ctx := withIdentity(cmd.Context())

		a, err := newApp(ctx, observability.NewNoop(), 1)
		if err != nil {
			return err
		}
		defer a.Close()

		orch := simulation.NewOrchestrator(a.engine, a.store, log,
			simulation.WithMinProcessing(config.GetDuration(cfg.Simulation.MinProcessing)))

		rec, err := orch.Submit(ctx, profile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if simulateJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		printResult(out, rec)
		if rec.Engine == models.EngineRules {
			printRecommendations(out, rules.Recommendations(rec.Eligible))
		}
		return nil
	},
}

var subjectFlags = []string{"nota-ct", "nota-ch", "nota-lc", "nota-mt", "nota-redacao"}

// profileFromFlags builds the profile from --file or from individual flags.
// Only flags the user set are copied, so optional fields stay empty.
func profileFromFlags(fs *pflag.FlagSet, stdin io.Reader) (models.CandidateProfile, error) {
	var p models.CandidateProfile

	if file, _ := fs.GetString("file"); file != "" {
		var r io.Reader = stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return p, fmt.Errorf("open profile: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return p, fmt.Errorf("decode profile: %w", err)
		}
		return p, nil
	}

	p.Age, _ = fs.GetInt("idade")
	p.Disability, _ = fs.GetBool("pcd")
	p.FamilyIncome, _ = fs.GetFloat64("renda")
	p.FamilyMembers, _ = fs.GetInt("membros")

	str := func(name string) string {
		v, _ := fs.GetString(name)
		return strings.TrimSpace(v)
	}
	p.Sex = models.Sex(str("sexo"))
	p.Race = models.Race(str("raca"))
	p.Region = models.Region(str("regiao"))
	p.SchoolType = models.SchoolType(str("escola"))
	p.Shift = models.Shift(str("turno"))
	p.Course = str("curso")
	p.Institution = str("instituicao")
	p.InstitutionAcronym = str("sigla")
	p.CompetitionModality = str("modalidade")
	p.TeachingModality = models.TeachingModality(str("modalidade-ensino"))

	if fs.Changed("nota-enem") {
		v, _ := fs.GetFloat64("nota-enem")
		p.ExamScore = &v
	}

	var set, missing []string
	for _, name := range subjectFlags {
		if fs.Changed(name) {
			set = append(set, name)
		} else {
			missing = append(missing, "--"+name)
		}
	}
	if len(set) > 0 {
		if len(missing) > 0 {
			return p, fmt.Errorf("informe as cinco notas; faltando: %s", strings.Join(missing, ", "))
		}
		get := func(name string) float64 {
			v, _ := fs.GetFloat64(name)
			return v
		}
		p.SubjectScores = &models.SubjectScores{
			NaturalSciences: get("nota-ct"),
			HumanSciences:   get("nota-ch"),
			Languages:       get("nota-lc"),
			Mathematics:     get("nota-mt"),
			Essay:           get("nota-redacao"),
		}
	}

	return p, nil
}

func init() {
	f := simulateCmd.Flags()
	f.String("file", "", "JSON profile file, '-' reads stdin")
	f.BoolVar(&simulateJSON, "json", false, "print the saved record as JSON")

	f.Int("idade", 0, "idade do candidato")
	f.String("sexo", "", "Masculino | Feminino")
	f.String("raca", "", "Branca | Preta | Parda | Amarela | Indígena")
	f.Bool("pcd", false, "pessoa com deficiência")
	f.String("regiao", "", "Norte | Nordeste | Centro-Oeste | Sudeste | Sul")

	f.Float64("renda", 0, "renda familiar mensal")
	f.Int("membros", models.DefaultFamilyMembers, "membros da família")

	f.Float64("nota-enem", 0, "nota média do ENEM")
	f.Float64("nota-ct", 0, "Ciências da Natureza")
	f.Float64("nota-ch", 0, "Ciências Humanas")
	f.Float64("nota-lc", 0, "Linguagens e Códigos")
	f.Float64("nota-mt", 0, "Matemática")
	f.Float64("nota-redacao", 0, "Redação")
	f.String("escola", "", "Publica | Privada")

	f.String("turno", "", "Matutino | Vespertino | Noturno | Integral | Curso a distância")
	f.String("curso", "", "nome do curso")
	f.String("instituicao", "", "nome da instituição")
	f.String("sigla", "", "sigla da instituição")
	f.String("modalidade", "", "modalidade de concorrência (Ampla concorrência, L1, L2, ...)")
	f.String("modalidade-ensino", "", "Presencial | EAD")

	rootCmd.AddCommand(simulateCmd)
}
