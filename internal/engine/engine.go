// Package engine selects the eligibility engine once, from configuration.
package engine

import (
	"context"
	"fmt"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/engine/remote"
	"prouni-simulator/internal/engine/rules"
	"prouni-simulator/internal/models"
)

// Engine turns a validated profile into a verdict.
type Engine interface {
	Kind() models.EngineKind
	// Schema names the profile fields this engine needs.
	Schema() models.ProfileSchema
	Evaluate(ctx context.Context, profile models.CandidateProfile) (*models.EngineResult, error)
}

// New builds the engine named by cfg.Mode. client is only used by the
// remote engine and may be nil otherwise.
func New(cfg config.EngineConfig, client *backend.Client, log logger.Logger) (Engine, error) {
	switch cfg.Mode {
	case config.EngineRules, "":
		policy := rules.DefaultPolicy().WithOverrides(cfg.Rules.MinimumWage, cfg.Rules.Cutoff)
		return rules.NewEngine(policy), nil

	case config.EngineRemote:
		if client == nil {
			return nil, fmt.Errorf("remote engine requires a backend client")
		}
		switch cfg.Remote.Protocol {
		case config.ProtocolDirect, "":
			return remote.NewEngine(remote.NewDirectClassifier(client), models.SchemaRemoteDirect), nil
		case config.ProtocolTwoStep:
			c := remote.NewTwoStepClassifier(client, config.GetDuration(cfg.Remote.PollInterval), cfg.Remote.MaxPolls, log)
			return remote.NewEngine(c, models.SchemaRemoteTwoStep), nil
		default:
			return nil, fmt.Errorf("unknown remote protocol %q", cfg.Remote.Protocol)
		}

	default:
		return nil, fmt.Errorf("unknown engine mode %q", cfg.Mode)
	}
}
