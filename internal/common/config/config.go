// internal/common/config/config.go
package config

import "fmt"

// Engine modes.
const (
	EngineRules  = "rules"
	EngineRemote = "remote"
)

// Remote protocols.
const (
	ProtocolDirect  = "direct"
	ProtocolTwoStep = "two_step"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Store      StoreConfig      `mapstructure:"store"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Session    SessionConfig    `mapstructure:"session"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// EngineConfig selects the eligibility engine once, at construction time.
type EngineConfig struct {
	Mode   string             `mapstructure:"mode"`
	Rules  RulesConfig        `mapstructure:"rules"`
	Remote RemoteEngineConfig `mapstructure:"remote"`
}

// RulesConfig overrides the rule-based policy. Zero values keep defaults.
type RulesConfig struct {
	MinimumWage int `mapstructure:"minimum_wage"`
	Cutoff      int `mapstructure:"cutoff"`
}

type RemoteEngineConfig struct {
	Protocol     string `mapstructure:"protocol"`
	PollInterval int    `mapstructure:"poll_interval"` // milliseconds
	MaxPolls     int    `mapstructure:"max_polls"`
}

// BackendConfig points at the FastAPI-style backend hosting auth and the model.
type BackendConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	DemoMode bool   `mapstructure:"demo_mode"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SimulationConfig holds orchestrator pacing.
type SimulationConfig struct {
	MinProcessing int `mapstructure:"min_processing"` // milliseconds
}

// SessionConfig controls where the CLI keeps the logged-in candidate.
type SessionConfig struct {
	Path string `mapstructure:"path"`
	TTL  int    `mapstructure:"ttl"` // milliseconds
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	OwnerHeader string `mapstructure:"owner_header"`
	// MaxSessions bounds the per-owner orchestrators kept in memory.
	MaxSessions int `mapstructure:"max_sessions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
