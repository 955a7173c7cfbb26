package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"kitflip/internal/domain/entity"
)

type Config struct {
	App      App
	Oracle   Oracle
	Market   Market
	Flip     Flip
	Postgres Postgres
	Bot      Bot
}

type App struct {
	Name                 string `env:"APP_NAME"               envDefault:"kitflip"`
	Version              string `env:"APP_VERSION"            envDefault:"dev"`
	LogLevel             string `env:"LOG_LEVEL"              envDefault:"info"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDRESS"`
	ProbeListenAddress   string `env:"PROBE_LISTEN_ADDRESS"`
}

type Oracle struct {
	URL              string        `env:"ORACLE_URL"                envDefault:"https://api2.prices.tf"`
	Timeout          time.Duration `env:"ORACLE_TIMEOUT"            envDefault:"30s"`
	RetryBudget      int           `env:"ORACLE_RETRY_BUDGET"       envDefault:"3"`
	RetryBackoff     time.Duration `env:"ORACLE_RETRY_BACKOFF"      envDefault:"500ms"`
	AuthRefreshLimit int           `env:"ORACLE_AUTH_REFRESH_LIMIT" envDefault:"1"`
	StalenessWindow  time.Duration `env:"ORACLE_STALENESS_WINDOW"   envDefault:"120h"`
	RefreshCooldown  time.Duration `env:"ORACLE_REFRESH_COOLDOWN"   envDefault:"1h"`
	RetryAfterUnit   time.Duration `env:"ORACLE_RETRY_AFTER_UNIT"   envDefault:"1ms"`

	AuthFailureCooldown time.Duration `env:"ORACLE_AUTH_FAILURE_COOLDOWN" envDefault:"5s"`
}

type Market struct {
	URL               string        `env:"MARKET_URL"                  envDefault:"https://backpack.tf/api"`
	Token             string        `env:"MARKET_TOKEN,required,notEmpty" json:"-"`
	AppID             string        `env:"MARKET_APP_ID"               envDefault:"440"`
	Timeout           time.Duration `env:"MARKET_TIMEOUT"              envDefault:"30s"`
	MinInterval       time.Duration `env:"MARKET_MIN_INTERVAL"         envDefault:"60s"`
	RetryBudget       int           `env:"MARKET_RETRY_BUDGET"         envDefault:"3"`
	RetryAfterUnit    time.Duration `env:"MARKET_RETRY_AFTER_UNIT"     envDefault:"1s"`
	MismatchPause     time.Duration `env:"MARKET_MISMATCH_PAUSE"       envDefault:"5s"`
	MaxMismatches     int           `env:"MARKET_MAX_MISMATCHES"       envDefault:"10"`
	MaxRateLimitWaits int           `env:"MARKET_MAX_RATE_LIMIT_WAITS" envDefault:"5"`
}

type Flip struct {
	WeaponsPath string          `env:"FLIP_WEAPONS_PATH" envDefault:"killstreakable_weapons_names.txt"`
	SchemaPath  string          `env:"FLIP_SCHEMA_PATH"  envDefault:"item_schema.json"`
	Quality     string          `env:"FLIP_QUALITY"`
	Mode        entity.FlipMode `env:"FLIP_MODE"         envDefault:"both"`
	RefineTop   int             `env:"FLIP_REFINE_TOP"   envDefault:"0"`
	Concurrency int             `env:"FLIP_CONCURRENCY"  envDefault:"4"`
	Interval    time.Duration   `env:"FLIP_INTERVAL"     envDefault:"0"`
}

type Bot struct {
	Token  string `env:"BOT_TOKEN"   json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
	Top    int    `env:"BOT_TOP"     envDefault:"10"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if !c.Flip.Mode.Valid() {
		return fmt.Errorf("FLIP_MODE: unknown mode %q", c.Flip.Mode)
	}

	if c.Oracle.RetryBudget < 0 || c.Market.RetryBudget < 0 {
		return fmt.Errorf("retry budgets must not be negative")
	}

	if c.Flip.Concurrency < 1 {
		return fmt.Errorf("FLIP_CONCURRENCY must be positive")
	}

	return nil
}

// MigrationFiles разбирает PG_MIGRATIONS (список через запятую).
func (p Postgres) MigrationFiles() []string {
	var files []string

	for _, f := range strings.Split(p.Migrations, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	return files
}
