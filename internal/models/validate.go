package models

import (
	_ "embed"
	"slices"

	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/validation"
)

// ProfileSchema selects which fields an engine needs.
type ProfileSchema string

const (
	SchemaRules         ProfileSchema = "rules"
	SchemaRemoteDirect  ProfileSchema = "remote_direct"
	SchemaRemoteTwoStep ProfileSchema = "remote_two_step"
)

var (
	//go:embed schemas/rules_profile.json
	rulesProfileSchema string
	//go:embed schemas/remote_direct_profile.json
	remoteDirectProfileSchema string
	//go:embed schemas/remote_two_step_profile.json
	remoteTwoStepProfileSchema string

	schemas = map[ProfileSchema]*validation.Schema{
		SchemaRules:         validation.MustCompile(rulesProfileSchema),
		SchemaRemoteDirect:  validation.MustCompile(remoteDirectProfileSchema),
		SchemaRemoteTwoStep: validation.MustCompile(remoteTwoStepProfileSchema),
	}
)

var fieldMessages = map[string]string{
	"idade":                   "Informe uma idade válida (14-100)",
	"sexo":                    "Selecione o sexo",
	"raca_beneficiario":       "Selecione a raça/cor",
	"regiao_beneficiario":     "Selecione a região",
	"modalidade_concorrencia": "Selecione a modalidade de concorrência",
	"modalidade_ensino":       "Selecione a modalidade de ensino",
	"nome_turno":              "Selecione o turno",
	"nome_curso":              "Informe o nome do curso",
	"nome_instituicao":        "Informe a instituição",
	"sigla_instituicao":       "A sigla da instituição deve ter até 10 caracteres",
	"renda_familiar":          "Informe a renda familiar",
	"membros_familia":         "Informe o número de membros da família",
	"tipo_escola":             "Selecione o tipo de escola",
	"nota_enem":               "Nota do ENEM deve estar entre 0 e 1000",
	"notas":                   "Notas do ENEM devem estar entre 0 e 1000",
}

// ValidateProfile checks presence and ranges for the given engine and
// returns a validation error with one message per offending field.
func ValidateProfile(p CandidateProfile, kind ProfileSchema) error {
	schema, ok := schemas[kind]
	if !ok {
		schema = schemas[SchemaRules]
	}

	res, err := schema.Validate(p)
	if err != nil {
		// NaN and Inf cannot be marshalled, so they land here.
		return apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "profile", Message: "Valores numéricos inválidos"},
		})
	}
	if res.Valid {
		return nil
	}

	names := res.TopLevelFields()
	// the only document-level rule is anyOf over nota_enem / notas
	if res.HasErrors(validation.RootField) && !slices.Contains(names, "nota_enem") {
		names = append([]string{"nota_enem"}, names...)
	}

	fields := make([]apperrors.FieldError, 0, len(names))
	for _, name := range names {
		msg, ok := fieldMessages[name]
		if !ok {
			if errs := res.GetErrorsForField(name); len(errs) > 0 {
				msg = errs[0].Message
			}
		}
		fields = append(fields, apperrors.FieldError{Field: name, Message: msg})
	}

	return apperrors.NewValidationError(fields)
}
