package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the coach service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Quota         QuotaConfig         `mapstructure:"quota"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Providers     ProviderConfig      `mapstructure:"providers"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb"`
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	RunMigrations   bool          `mapstructure:"run_migrations"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// QuotaConfig holds per-plan daily analysis ceilings. The free ceiling is a
// soft product limit; premium is a high abuse guard rather than "unlimited".
type QuotaConfig struct {
	FreeDailyLimit    int `mapstructure:"free_daily_limit"`
	PremiumDailyLimit int `mapstructure:"premium_daily_limit"`
}

type CacheConfig struct {
	ExactTTL time.Duration `mapstructure:"exact_ttl"`
	UserTTL  time.Duration `mapstructure:"user_ttl"`
	LooseTTL time.Duration `mapstructure:"loose_ttl"`
}

type ProviderConfig struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	DeepSeek  DeepSeekConfig  `mapstructure:"deepseek"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`

	// Timeout bounds a primary provider attempt; FastTimeout bounds the
	// cheap fallback model.
	Timeout     time.Duration `mapstructure:"timeout"`
	FastTimeout time.Duration `mapstructure:"fast_timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	FastModel string `mapstructure:"fast_model"`
}

type DeepSeekConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Prepass enables the DeepSeek grammar pre-parse that feeds context
	// into the primary writing prompt.
	Prepass bool `mapstructure:"prepass"`
}

type BedrockConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Region          string `mapstructure:"region"`
	ModelID         string `mapstructure:"model_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type ObservabilityConfig struct {
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	EnableOTLP    bool   `mapstructure:"enable_otlp"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv("COACH_CONFIG_FILE"); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		v.SetConfigName("coach")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("COACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required values are set.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.URL == "" {
		missing = append(missing, "COACH_DATABASE_URL")
	}
	if c.Redis.URL == "" {
		missing = append(missing, "COACH_REDIS_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "COACH_AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Quota.FreeDailyLimit <= 0 {
		return fmt.Errorf("quota.free_daily_limit must be > 0")
	}
	if c.Quota.PremiumDailyLimit < c.Quota.FreeDailyLimit {
		return fmt.Errorf("quota.premium_daily_limit must be >= quota.free_daily_limit")
	}
	if c.Cache.ExactTTL <= 0 || c.Cache.UserTTL <= 0 || c.Cache.LooseTTL <= 0 {
		return fmt.Errorf("cache TTLs must be > 0")
	}
	if c.Providers.Timeout <= 0 || c.Providers.FastTimeout <= 0 {
		return fmt.Errorf("provider timeouts must be > 0")
	}
	if c.Providers.MaxTokens <= 0 {
		return fmt.Errorf("providers.max_tokens must be > 0")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}
	if c.Database.RunMigrations && c.Database.MigrationsDir == "" {
		return fmt.Errorf("database.migrations_dir must be provided when run_migrations is true")
	}
	if c.Providers.Bedrock.Enabled {
		if c.Providers.Bedrock.Region == "" || c.Providers.Bedrock.ModelID == "" {
			return fmt.Errorf("providers.bedrock requires region and model_id when enabled")
		}
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns must be >= 0")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.pool_size must be >= 0")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.body_limit_mb", 1)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")

	v.SetDefault("database.run_migrations", true)
	v.SetDefault("database.migrations_dir", "./migrations")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("quota.free_daily_limit", 3)
	v.SetDefault("quota.premium_daily_limit", 50)

	v.SetDefault("cache.exact_ttl", "168h")
	v.SetDefault("cache.user_ttl", "24h")
	v.SetDefault("cache.loose_ttl", "24h")

	v.SetDefault("providers.timeout", "30s")
	v.SetDefault("providers.fast_timeout", "15s")
	v.SetDefault("providers.max_tokens", 4096)
	v.SetDefault("providers.anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("providers.anthropic.fast_model", "claude-3-haiku-20240307")
	v.SetDefault("providers.deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("providers.deepseek.model", "deepseek-chat")
	v.SetDefault("providers.deepseek.prepass", true)
	v.SetDefault("providers.bedrock.enabled", false)

	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.issuer", "hsk-ai-coach")

	v.SetDefault("observability.enable_otlp", false)
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.otlp_endpoint", "http://localhost:4317")
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
