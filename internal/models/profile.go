package models

import "strings"

type Sex string

const (
	SexMale   Sex = "Masculino"
	SexFemale Sex = "Feminino"
)

type Race string

const (
	RaceWhite      Race = "Branca"
	RaceBlack      Race = "Preta"
	RaceBrown      Race = "Parda"
	RaceYellow     Race = "Amarela"
	RaceIndigenous Race = "Indígena"
)

type Region string

const (
	RegionNorth     Region = "Norte"
	RegionNortheast Region = "Nordeste"
	RegionMidwest   Region = "Centro-Oeste"
	RegionSoutheast Region = "Sudeste"
	RegionSouth     Region = "Sul"
)

type SchoolType string

const (
	SchoolPublic  SchoolType = "Publica"
	SchoolPrivate SchoolType = "Privada"
)

type Shift string

const (
	ShiftMorning   Shift = "Matutino"
	ShiftAfternoon Shift = "Vespertino"
	ShiftEvening   Shift = "Noturno"
	ShiftFullTime  Shift = "Integral"
	ShiftDistance  Shift = "Curso a distância"
)

type TeachingModality string

const (
	TeachingInPerson TeachingModality = "Presencial"
	TeachingDistance TeachingModality = "EAD"
)

// Competition modalities (affirmative-action categories).
const (
	ModalityOpen = "Ampla concorrência"
	ModalityL1   = "L1"
	ModalityL2   = "L2"
	ModalityL5   = "L5"
	ModalityL6   = "L6"
	ModalityL9   = "L9"
	ModalityL10  = "L10"
	ModalityL13  = "L13"
	ModalityL14  = "L14"
)

// DefaultFamilyMembers is used whenever the member count is unset or not positive.
const DefaultFamilyMembers = 4

// SubjectScores holds the five ENEM areas, each on the 0-1000 scale.
type SubjectScores struct {
	NaturalSciences float64 `json:"nota_ct"`
	HumanSciences   float64 `json:"nota_ch"`
	Languages       float64 `json:"nota_lc"`
	Mathematics     float64 `json:"nota_mt"`
	Essay           float64 `json:"nota_redacao"`
}

// Average is the arithmetic mean of the five areas.
func (s SubjectScores) Average() float64 {
	return (s.NaturalSciences + s.HumanSciences + s.Languages + s.Mathematics + s.Essay) / 5
}

// CandidateProfile is one submitted simulation form. It is never persisted
// on its own, only as the denormalised copy inside an OutcomeRecord.
type CandidateProfile struct {
	Age        int    `json:"idade"`
	Sex        Sex    `json:"sexo,omitempty"`
	Race       Race   `json:"raca_beneficiario,omitempty"`
	Disability bool   `json:"pcd"`
	Region     Region `json:"regiao_beneficiario,omitempty"`

	FamilyIncome  float64 `json:"renda_familiar"`
	FamilyMembers int     `json:"membros_familia,omitempty"`

	ExamScore     *float64       `json:"nota_enem,omitempty"`
	SubjectScores *SubjectScores `json:"notas,omitempty"`
	SchoolType    SchoolType     `json:"tipo_escola,omitempty"`

	Shift               Shift            `json:"nome_turno,omitempty"`
	Course              string           `json:"nome_curso,omitempty"`
	Institution         string           `json:"nome_instituicao,omitempty"`
	InstitutionAcronym  string           `json:"sigla_instituicao,omitempty"`
	CompetitionModality string           `json:"modalidade_concorrencia,omitempty"`
	TeachingModality    TeachingModality `json:"modalidade_ensino,omitempty"`
}

// Clone returns a copy that shares no pointers with p.
func (p CandidateProfile) Clone() CandidateProfile {
	p.ExamScore = cloneFloat(p.ExamScore)
	if p.SubjectScores != nil {
		s := *p.SubjectScores
		p.SubjectScores = &s
	}
	return p
}

// CompositeExamScore returns the single exam score, or the mean of the
// subject scores when only those were given.
func (p CandidateProfile) CompositeExamScore() (float64, bool) {
	if p.ExamScore != nil {
		return *p.ExamScore, true
	}
	if p.SubjectScores != nil {
		return p.SubjectScores.Average(), true
	}
	return 0, false
}

// EffectiveFamilyMembers never returns a value that could divide by zero.
func (p CandidateProfile) EffectiveFamilyMembers() int {
	if p.FamilyMembers <= 0 {
		return DefaultFamilyMembers
	}
	return p.FamilyMembers
}

// NormalizedProfile is the feature set the remote model is trained on.
type NormalizedProfile struct {
	Age                 int
	CompetitionModality string
	Disability          bool
	Sex                 Sex
	Race                Race
	Region              Region
	TeachingModality    TeachingModality
	Shift               Shift
	Course              string
	Institution         string
	InstitutionAcronym  string
	Scores              *SubjectScores
}

func (p CandidateProfile) Normalize() NormalizedProfile {
	n := NormalizedProfile{
		Age:                 p.Age,
		CompetitionModality: strings.TrimSpace(p.CompetitionModality),
		Disability:          p.Disability,
		Sex:                 p.Sex,
		Race:                p.Race,
		Region:              p.Region,
		TeachingModality:    p.TeachingModality,
		Shift:               p.Shift,
		Course:              strings.TrimSpace(p.Course),
		Institution:         strings.TrimSpace(p.Institution),
		InstitutionAcronym:  strings.TrimSpace(p.InstitutionAcronym),
	}
	if p.SubjectScores != nil {
		s := *p.SubjectScores
		n.Scores = &s
	}
	if n.InstitutionAcronym == "" {
		n.InstitutionAcronym = acronym(n.Institution)
	}
	return n
}

// acronym builds "UFMG" from "Universidade Federal de Minas Gerais",
// skipping Portuguese connectives.
func acronym(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		switch strings.ToLower(w) {
		case "de", "da", "do", "das", "dos", "e":
			continue
		}
		for _, r := range w {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
		if b.Len() >= 10 {
			break
		}
	}
	return b.String()
}
