package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PostgresConfig locates the API key table.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Config is the full service configuration.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Limits struct {
		MaxBodyBytes     int `yaml:"max_body_bytes"`
		MaxLabels        int `yaml:"max_labels"`
		MaxArtifactBytes int `yaml:"max_artifact_bytes"`
	} `yaml:"limits"`

	Cache struct {
		RedisHost       string        `yaml:"redis_host"`
		RateLimitDB     int           `yaml:"redis_rate_db"`
		ArtifactCacheDB int           `yaml:"redis_artifact_db"`
		Enabled         bool          `yaml:"artifact_cache_enabled"`
		TTL             time.Duration `yaml:"artifact_cache_ttl"`
	} `yaml:"cache"`

	RateLimiter struct {
		Interval          time.Duration `yaml:"interval"`
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
		UserLimit         int           `yaml:"user_limit"`
	} `yaml:"rate_limiter"`

	Auth struct {
		Enabled        bool           `yaml:"enabled"`
		ReloadInterval time.Duration  `yaml:"reload_interval"`
		Postgres       PostgresConfig `yaml:"postgres"`
	} `yaml:"auth"`

	PDF struct {
		// Backend is "native" (gofpdf) or "chrome" (chromedp PrintToPDF).
		Backend         string               `yaml:"backend"`
		DefaultPaper    string               `yaml:"default_paper"`
		PaperSizes      map[string]PaperSize `yaml:"paper_sizes"`
		MarginInches    float64              `yaml:"margin"`
		TimeoutSecs     int                  `yaml:"timeout_secs"`
		ChromePath      string               `yaml:"chrome_path"`
		ChromeNoSandbox bool                 `yaml:"chrome_no_sandbox"`
		ChromePoolSize  int                  `yaml:"chrome_pool_size"`
		UserDataDir     string               `yaml:"user_data_dir"`
	} `yaml:"pdf"`

	Layout struct {
		Unit         string  `yaml:"unit"`
		MaxBoxWidth  float64 `yaml:"max_box_width"`
		MaxBoxHeight float64 `yaml:"max_box_height"`
		// Spacing is a pointer so an explicit 0 survives defaulting.
		Spacing       *float64 `yaml:"spacing"`
		MinFont       float64  `yaml:"min_font"`
		MaxFont       float64  `yaml:"max_font"`
		CardTextChars int      `yaml:"card_text_chars"`
		PreviewChars  int      `yaml:"preview_text_chars"`
	} `yaml:"layout"`

	Storage struct {
		// Driver is "local" or "drive".
		Driver          string `yaml:"driver"`
		Prefix          string `yaml:"prefix"`
		LocalDir        string `yaml:"local_dir"`
		PublicBaseURL   string `yaml:"public_base_url"`
		DriveFolderID   string `yaml:"drive_folder_id"`
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"storage"`

	Notify struct {
		WebhookURL  string        `yaml:"webhook_url"`
		Timeout     time.Duration `yaml:"timeout"`
		SecretToken string        `yaml:"secret_token"`
	} `yaml:"notify"`
}

// UnitToPoint converts the configured design unit into points.
func (c Config) UnitToPoint() float64 {
	switch strings.ToLower(c.Layout.Unit) {
	case "mm":
		return 72 / 25.4
	case "cm":
		return 72 / 2.54
	case "pt":
		return 1
	}
	return 72
}

// Paper resolves the default paper size, in inches.
func (c Config) Paper() (PaperSize, bool) {
	p, ok := c.PaperSizes()[strings.ToUpper(c.PDF.DefaultPaper)]
	return p, ok
}

// PaperSizes returns the paper table keyed by upper-case name.
func (c Config) PaperSizes() map[string]PaperSize {
	out := make(map[string]PaperSize, len(c.PDF.PaperSizes))
	for k, v := range c.PDF.PaperSizes {
		out[strings.ToUpper(k)] = v
	}
	return out
}

var AppConfig Config

// GetConfig returns the configuration loaded by Load.
func GetConfig() Config { return AppConfig }

// LoadDotEnv loads .env outside production; a missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("ENV") == "production" {
		return
	}
	_ = godotenv.Load()
}

// Load reads the file named by CONFIG_PATH (default config.yaml).
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	AppConfig = LoadFrom(path)
	return AppConfig
}

// LoadFrom reads, defaults and validates a config file. It panics on invalid values.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("read config %s: %v", path, err))
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("parse config %s: %v", path, err))
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		panic(err.Error())
	}
	return cfg
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	var cfg Config
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHROME_BIN"); v != "" && cfg.PDF.ChromePath == "" {
		cfg.PDF.ChromePath = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && cfg.Storage.CredentialsFile == "" {
		cfg.Storage.CredentialsFile = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = ":" + strings.TrimPrefix(v, ":")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Limits.MaxBodyBytes == 0 {
		cfg.Limits.MaxBodyBytes = 1 << 20
	}
	if cfg.Limits.MaxLabels == 0 {
		cfg.Limits.MaxLabels = 500
	}
	if cfg.Limits.MaxArtifactBytes == 0 {
		cfg.Limits.MaxArtifactBytes = 20 << 20
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = time.Minute
	}
	if cfg.Auth.ReloadInterval == 0 {
		cfg.Auth.ReloadInterval = time.Minute
	}
	if cfg.PDF.Backend == "" {
		cfg.PDF.Backend = "native"
	}
	if cfg.PDF.DefaultPaper == "" {
		cfg.PDF.DefaultPaper = "LETTER"
	}
	if len(cfg.PDF.PaperSizes) == 0 {
		cfg.PDF.PaperSizes = map[string]PaperSize{
			"LETTER": {Width: 8.5, Height: 11},
			"A4":     {Width: 8.27, Height: 11.69},
		}
	}
	if cfg.PDF.MarginInches == 0 {
		cfg.PDF.MarginInches = 0.5
	}
	if cfg.PDF.TimeoutSecs == 0 {
		cfg.PDF.TimeoutSecs = 30
	}
	if cfg.Layout.Unit == "" {
		cfg.Layout.Unit = "in"
	}
	if cfg.Layout.MaxBoxWidth == 0 {
		cfg.Layout.MaxBoxWidth = 400
	}
	if cfg.Layout.MaxBoxHeight == 0 {
		cfg.Layout.MaxBoxHeight = 144
	}
	if cfg.Layout.Spacing == nil {
		spacing := 18.0
		cfg.Layout.Spacing = &spacing
	}
	if cfg.Layout.MinFont == 0 {
		cfg.Layout.MinFont = 4
	}
	if cfg.Layout.MaxFont == 0 {
		cfg.Layout.MaxFont = 72
	}
	if cfg.Layout.CardTextChars == 0 {
		cfg.Layout.CardTextChars = 40
	}
	if cfg.Layout.PreviewChars == 0 {
		cfg.Layout.PreviewChars = 60
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "orders"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "artifacts"
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = 5 * time.Second
	}
}

func validate(cfg Config) error {
	if _, ok := cfg.Paper(); !ok {
		return fmt.Errorf("pdf.default_paper %q is not in pdf.paper_sizes", cfg.PDF.DefaultPaper)
	}
	switch cfg.PDF.Backend {
	case "native", "chrome":
	default:
		return fmt.Errorf("pdf.backend must be native or chrome, got %q", cfg.PDF.Backend)
	}
	switch cfg.Storage.Driver {
	case "local", "drive":
	default:
		return fmt.Errorf("storage.driver must be local or drive, got %q", cfg.Storage.Driver)
	}
	switch strings.ToLower(cfg.Layout.Unit) {
	case "in", "mm", "cm", "pt":
	default:
		return fmt.Errorf("layout.unit must be in, mm, cm or pt, got %q", cfg.Layout.Unit)
	}
	if cfg.Limits.MaxBodyBytes < 0 || cfg.Limits.MaxLabels < 0 || cfg.Limits.MaxArtifactBytes < 0 {
		return fmt.Errorf("limits must be positive")
	}
	if cfg.RateLimiter.Interval < 0 || cfg.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter values must not be negative")
	}
	if cfg.Layout.MinFont > cfg.Layout.MaxFont {
		return fmt.Errorf("layout.min_font must not exceed layout.max_font")
	}
	if cfg.PDF.MarginInches < 0 || cfg.Layout.MaxBoxWidth < 0 || cfg.Layout.MaxBoxHeight < 0 ||
		(cfg.Layout.Spacing != nil && *cfg.Layout.Spacing < 0) {
		return fmt.Errorf("layout sizes must not be negative")
	}
	return nil
}
