package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	APIPrefix string `env:"API_PREFIX, default=/api/v0"`

	// APIKeyHash is a bcrypt hash; when set, the matching raw key in the
	// Authorization header authenticates a service caller.
	APIKeyHash string `env:"API_KEY_HASH"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Limits    LimitsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clubhub"`
}

// RedisConfig is optional; an empty address disables rate limiting.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB,   default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type AuthConfig struct {
	Provider            string `env:"AUTH_PROVIDER,             default=firebase"`
	FirebaseCredentials string `env:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	JWTSecret           string `env:"JWT_SECRET"`
	StudentEmailSuffix  string `env:"STUDENT_EMAIL_SUFFIX,      default=@student.tdsb.on.ca"`
	TeacherEmailSuffix  string `env:"TEACHER_EMAIL_SUFFIX,      default=@tdsb.on.ca"`
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=50"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1h"`
}

type LimitsConfig struct {
	ClubNameMax        int `env:"CLUB_NAME_MAX,        default=100"`
	ClubDescriptionMin int `env:"CLUB_DESCRIPTION_MIN, default=1"`
	ClubDescriptionMax int `env:"CLUB_DESCRIPTION_MAX, default=500"`
	PostTitleMin       int `env:"POST_TITLE_MIN,       default=3"`
	PostTitleMax       int `env:"POST_TITLE_MAX,       default=30"`
	PostBodyMin        int `env:"POST_BODY_MIN,        default=1"`
	PostBodyMax        int `env:"POST_BODY_MAX,        default=500"`
	CommentBodyMin     int `env:"COMMENT_BODY_MIN,     default=1"`
	CommentBodyMax     int `env:"COMMENT_BODY_MAX,     default=500"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	switch c.Auth.Provider {
	case AuthFirebase:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=%s", AuthJWT)
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthFirebase, AuthJWT, c.Auth.Provider)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DomainLimits maps the length bounds onto the service limits.
func (c *Config) DomainLimits() domain.Limits {
	l := domain.DefaultLimits
	l.ClubName = domain.Bounds{Min: 1, Max: c.Limits.ClubNameMax}
	l.ClubDescription = domain.Bounds{Min: c.Limits.ClubDescriptionMin, Max: c.Limits.ClubDescriptionMax}
	l.PostTitle = domain.Bounds{Min: c.Limits.PostTitleMin, Max: c.Limits.PostTitleMax}
	l.PostBody = domain.Bounds{Min: c.Limits.PostBodyMin, Max: c.Limits.PostBodyMax}
	l.CommentBody = domain.Bounds{Min: c.Limits.CommentBodyMin, Max: c.Limits.CommentBodyMax}
	return l
}

func (c *Config) EmailPolicy() domain.EmailPolicy {
	return domain.EmailPolicy{
		StudentSuffix: c.Auth.StudentEmailSuffix,
		TeacherSuffix: c.Auth.TeacherEmailSuffix,
	}
}
