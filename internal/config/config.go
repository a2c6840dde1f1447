package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ProvidersConfig holds per-provider credentials and endpoints.
type ProvidersConfig struct {
	BigDataCorp    BigDataCorpConfig    `yaml:"bigdatacorp" mapstructure:"bigdatacorp"`
	Wiza           WizaConfig           `yaml:"wiza" mapstructure:"wiza"`
	Surfe          SurfeConfig          `yaml:"surfe" mapstructure:"surfe"`
	PeopleDataLabs PeopleDataLabsConfig `yaml:"peopledatalabs" mapstructure:"peopledatalabs"`
}

// BigDataCorpConfig holds BigDataCorp API settings.
type BigDataCorpConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Secret            string  `yaml:"secret" mapstructure:"secret"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// WizaConfig holds Wiza API settings.
type WizaConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// SurfeConfig holds Surfe API settings.
type SurfeConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// PeopleDataLabsConfig holds People Data Labs API settings.
type PeopleDataLabsConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MinLikelihood     int     `yaml:"min_likelihood" mapstructure:"min_likelihood"`
}

// EnrichConfig configures orchestration timeouts.
type EnrichConfig struct {
	// ProviderTimeoutSecs bounds each individual adapter call.
	ProviderTimeoutSecs int `yaml:"provider_timeout_secs" mapstructure:"provider_timeout_secs"`
	// TimeoutSecs is the ceiling on the whole fan-out; adapters still
	// running at the ceiling are recorded as timed out.
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScorerConfig configures the completeness scorer.
type ScorerConfig struct {
	// WeightsPath optionally points at a YAML weight table overriding
	// the built-in defaults.
	WeightsPath string `yaml:"weights_path" mapstructure:"weights_path"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "enrich.db")
	v.SetDefault("enrich.provider_timeout_secs", 15)
	v.SetDefault("enrich.timeout_secs", 30)
	v.SetDefault("providers.bigdatacorp.base_url", "https://plataforma.bigdatacorp.com.br/api/v1")
	v.SetDefault("providers.bigdatacorp.requests_per_second", 5)
	v.SetDefault("providers.wiza.base_url", "https://api.wiza.co/api/v1")
	v.SetDefault("providers.wiza.requests_per_second", 5)
	v.SetDefault("providers.surfe.base_url", "https://api.surfe.com/v2")
	v.SetDefault("providers.surfe.requests_per_second", 5)
	v.SetDefault("providers.peopledatalabs.base_url", "https://api.peopledatalabs.com/v5")
	v.SetDefault("providers.peopledatalabs.requests_per_second", 5)
	v.SetDefault("providers.peopledatalabs.min_likelihood", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
