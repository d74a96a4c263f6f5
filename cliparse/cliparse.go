package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/petition-desk/db"
	"github.com/danielhkuo/petition-desk/images"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3000"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	AppSecret     string        `env:"APP_SECRET"`
	SuperUsername string        `env:"SUPER_USERNAME" envDefault:"superadmin"`
	SuperPassword string        `env:"SUPER_PASSWORD"`
	SuperName     string        `env:"SUPER_NAME" envDefault:"Super Admin"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"6h"`
	SecureCookies bool          `env:"SECURE_COOKIES"`
	LoginRate     string        `env:"LOGIN_RATE" envDefault:"20-M"`

	// TrustProxy makes the login limiter key on X-Forwarded-For.
	TrustProxy bool `env:"TRUST_PROXY"`

	TimeZone  string `env:"TIME_ZONE" envDefault:"Asia/Bangkok"`
	MaxBodyMB int    `env:"MAX_BODY_MB" envDefault:"60"`

	ImageStorage  string `env:"IMAGE_STORAGE" envDefault:"inline"`
	UploadDir     string `env:"UPLOAD_DIR"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads/"`

	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON        bool     `env:"LOG_JSON"`
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
}

// LoadEnvFiles loads .env.local then .env from the working directory when
// present. Variables already set in the environment win, and .env.local
// wins over .env.
func LoadEnvFiles() (int, error) {
	var found []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return 0, nil
	}
	return len(found), godotenv.Load(found...)
}

// ParseFlags reads the environment, then applies flags on top of it and
// validates the result.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("petition-desk", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL or sqlite file path")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AppSecret, "app-secret", cfg.AppSecret, "Session signing secret (prefer env)")
	fs.StringVar(&cfg.SuperUsername, "super-username", cfg.SuperUsername, "Reserved super admin username")
	fs.StringVar(&cfg.SuperPassword, "super-password", cfg.SuperPassword, "Super admin seed password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.SuperUsername = strings.TrimSpace(cfg.SuperUsername)
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if _, err := db.ParseDialect(c.DatabaseType); err != nil {
		return err
	}

	// Secrets - MUST be provided
	if c.AppSecret == "" {
		return errors.New("APP_SECRET required")
	}
	if c.SuperPassword == "" {
		return errors.New("SUPER_PASSWORD required")
	}
	if c.SuperUsername == "" {
		return errors.New("SUPER_USERNAME must not be blank")
	}

	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.MaxBodyMB <= 0 {
		return errors.New("MAX_BODY_MB must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.ImageStorage) {
	case images.ModeInline, images.ModeDisk:
	default:
		return fmt.Errorf("IMAGE_STORAGE must be %q or %q", images.ModeInline, images.ModeDisk)
	}
	return nil
}

// Dialect returns the parsed DATABASE_TYPE.
func (c Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.DatabaseType)
	return d
}

// Location loads TIME_ZONE. Blank means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// MaxBodyBytes is the request body cap.
func (c Config) MaxBodyBytes() int64 {
	return int64(c.MaxBodyMB) << 20
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
