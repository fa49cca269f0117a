package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"idade": {"type": "integer", "minimum": 14, "maximum": 100},
		"sexo": {"type": "string", "enum": ["Masculino", "Feminino"]},
		"notas": {
			"type": "object",
			"properties": {"nota_mt": {"type": "number"}},
			"required": ["nota_mt"]
		}
	},
	"required": ["idade", "sexo"]
}`

func TestSchema_Valid(t *testing.T) {
	s := MustCompile(testSchema)

	res, err := s.Validate(map[string]interface{}{"idade": 22, "sexo": "Feminino"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestSchema_ReportsFieldNames(t *testing.T) {
	s := MustCompile(testSchema)

	res, err := s.Validate(map[string]interface{}{
		"idade": 9,
		"notas": map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	assert.True(t, res.HasErrors("idade"))
	assert.True(t, res.HasErrors("sexo"))
	assert.True(t, res.HasErrors("notas.nota_mt"))
	assert.False(t, res.HasErrors("notas"))
	assert.Len(t, res.GetErrorsForField("notas"), 1)
	assert.Empty(t, res.GetErrorsForField("nota"))
	assert.ElementsMatch(t, []string{"idade", "sexo", "notas"}, res.TopLevelFields())
}

func TestSchema_RootFailures(t *testing.T) {
	s := MustCompile(`{
		"type": "object",
		"anyOf": [{"required": ["nota_enem"]}, {"required": ["notas"]}]
	}`)

	res, err := s.Validate(map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors(RootField))
	assert.Empty(t, res.TopLevelFields())
}

func TestSchema_ErrorCodes(t *testing.T) {
	res, err := MustCompile(testSchema).Validate(map[string]interface{}{"idade": 200, "sexo": "X"})
	require.NoError(t, err)

	codes := map[string]string{}
	for _, e := range res.Errors {
		codes[e.Field] = e.Code
	}
	assert.Equal(t, "NUMBER_LTE", codes["idade"])
	assert.Equal(t, "ENUM", codes["sexo"])
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`{`) })
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@exemplo.com.br", true},
		{"joao.silva+prouni@mail.com", true},
		{"sem-arroba.com", false},
		{"x@y", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateEmail(tt.email), tt.email)
	}
}
