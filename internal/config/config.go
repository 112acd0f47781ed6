package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret          string
		TokenTTLMinutes    int
		BcryptCost         int
		LoginRatePerSecond float64
		LoginBurst         int
	}
	Session struct {
		Backend string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Classifier struct {
		Trees int
		Seed  uint64
	}
	Voice struct {
		Provider        string
		OutputDir       string
		LanguageCode    string
		VoiceName       string
		CredentialsFile string
		QueueSize       int
		// RetentionMinutes bounds how long announcement clips stay fetchable.
		RetentionMinutes int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Tracing struct {
		Enabled     bool
		Endpoint    string
		SampleRatio float64
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// a missing .env is fine; existing environment always wins
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAREERAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "data/careerai.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 720)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("auth.loginratepersecond", 1.0)
	v.SetDefault("auth.loginburst", 5)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("classifier.trees", 100)
	v.SetDefault("classifier.seed", 0)
	v.SetDefault("voice.provider", "none")
	v.SetDefault("voice.outputdir", "data/announcements")
	v.SetDefault("voice.languagecode", "en-US")
	v.SetDefault("voice.voicename", "en-US-Wavenet-D")
	v.SetDefault("voice.credentialsfile", "")
	v.SetDefault("voice.queuesize", 16)
	v.SetDefault("voice.retentionminutes", 60)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "career-reports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sampleratio", 1.0)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	switch c.Voice.Provider {
	case "none", "google":
	default:
		return fmt.Errorf("unknown voice provider %q", c.Voice.Provider)
	}
	if c.Classifier.Trees <= 0 {
		return fmt.Errorf("classifier trees must be positive")
	}
	return nil
}
