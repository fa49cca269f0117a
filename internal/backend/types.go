package backend

import (
	"encoding/json"
	"strings"

	"prouni-simulator/internal/models"
)

// Endpoint paths on the backend.
const (
	PathLogin        = "/login"
	PathSignup       = "/cadastro"
	PathFormulario   = "/formulario/%d"
	PathResult       = "/resultados/%d"
	PathSimulaDireto = "/simular-direto"
	PathCourses      = "/cursos/"
	PathCourse       = "/cursos/%d"
)

// Course catalog paging defaults, matching the backend's own.
const (
	DefaultCourseLimit = 100
	MaxCourseLimit     = 1000
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginResponse struct {
	AccessStatus string           `json:"access_status"`
	Candidate    models.Candidate `json:"candidato"`
}

// DirectRequest carries the ten features the classification model expects.
type DirectRequest struct {
	Age                 int    `json:"idade"`
	CompetitionModality string `json:"modalidade_concorrencia"`
	Disability          bool   `json:"pcd"`
	Sex                 string `json:"sexo"`
	Race                string `json:"raca_beneficiario"`
	Region              string `json:"regiao_beneficiario"`
	TeachingModality    string `json:"modalidade_ensino"`
	Shift               string `json:"nome_turno"`
	Course              string `json:"nome_curso"`
	Institution         string `json:"nome_instituicao"`
}

type DirectResponse struct {
	Classification string                 `json:"classificacao"`
	Message        string                 `json:"mensagem"`
	Input          map[string]interface{} `json:"dados_entrada,omitempty"`
}

type InstitutionData struct {
	Name     string `json:"nome"`
	Acronym  string `json:"sigla"`
	Modality string `json:"modalidade,omitempty"`
}

type CourseData struct {
	Name  string `json:"nome_curso"`
	Shift string `json:"turno,omitempty"`
}

// Course is one catalog entry with the subject weights used to rank
// candidates and the last cutoff range.
type Course struct {
	ID             int     `json:"ID"`
	InstitutionID  int     `json:"ID_instituicao"`
	Name           string  `json:"nome_curso"`
	Degree         *string `json:"grau,omitempty"`
	Shift          *string `json:"turno,omitempty"`
	WeightNatural  float64 `json:"peso_ct"`
	WeightHuman    float64 `json:"peso_ch"`
	WeightLanguage float64 `json:"peso_lc"`
	WeightMath     float64 `json:"peso_mt"`
	WeightEssay    float64 `json:"peso_redacao"`
	MaxScore       float64 `json:"nota_maxima"`
	MinScore       float64 `json:"nota_minima"`
}

// ComplementaryData is the second half of a candidate's registration.
type ComplementaryData struct {
	CompetitionModality string                `json:"modalidade_concorrencia"`
	Institution         InstitutionData       `json:"instituicao"`
	Course              CourseData            `json:"curso"`
	Scores              *models.SubjectScores `json:"notas,omitempty"`
}

// ResultResponse accepts both the scored shape and the label-only shape
// older backends return.
type ResultResponse struct {
	Approved       *bool    `json:"approved,omitempty"`
	Message        string   `json:"message,omitempty"`
	CandidateScore *float64 `json:"candidate_score,omitempty"`
	CutoffScore    *float64 `json:"cutoff_score,omitempty"`
	Difference     *float64 `json:"difference,omitempty"`

	Classification string `json:"classificacao_bolsa,omitempty"`
	Mensagem       string `json:"mensagem,omitempty"`
	Course         string `json:"curso,omitempty"`
}

// errorBody is the FastAPI error envelope. detail is a string for
// HTTPException and a list of objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorBody) message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
