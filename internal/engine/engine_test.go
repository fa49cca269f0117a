package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/models"
)

func TestNew(t *testing.T) {
	client := backend.NewClient(config.BackendConfig{BaseURL: "http://localhost:1"}, logger.NewNoOpLogger(), nil)

	tests := []struct {
		name       string
		cfg        config.EngineConfig
		client     *backend.Client
		wantKind   models.EngineKind
		wantSchema models.ProfileSchema
		wantErr    bool
	}{
		{"rules by default", config.EngineConfig{}, nil, models.EngineRules, models.SchemaRules, false},
		{"remote direct", config.EngineConfig{Mode: config.EngineRemote, Remote: config.RemoteEngineConfig{Protocol: config.ProtocolDirect}}, client, models.EngineRemote, models.SchemaRemoteDirect, false},
		{"remote two step", config.EngineConfig{Mode: config.EngineRemote, Remote: config.RemoteEngineConfig{Protocol: config.ProtocolTwoStep, MaxPolls: 2}}, client, models.EngineRemote, models.SchemaRemoteTwoStep, false},
		{"remote without client", config.EngineConfig{Mode: config.EngineRemote}, nil, "", "", true},
		{"unknown protocol", config.EngineConfig{Mode: config.EngineRemote, Remote: config.RemoteEngineConfig{Protocol: "grpc"}}, client, "", "", true},
		{"unknown mode", config.EngineConfig{Mode: "ml"}, nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg, tt.client, logger.NewNoOpLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, e.Kind())
			assert.Equal(t, tt.wantSchema, e.Schema())
		})
	}
}

func TestNew_RulesOverrides(t *testing.T) {
	e, err := New(config.EngineConfig{Mode: config.EngineRules, Rules: config.RulesConfig{Cutoff: 90}}, nil, logger.NewNoOpLogger())
	require.NoError(t, err)

	exam := 650.0
	res, err := e.Evaluate(context.Background(), models.CandidateProfile{
		Age: 22, FamilyIncome: 2400, FamilyMembers: 4, ExamScore: &exam, SchoolType: models.SchoolPublic,
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, res.Score)
	assert.False(t, res.Eligible)
}
