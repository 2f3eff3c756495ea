package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"moodlequiz/internal/log"
	"moodlequiz/internal/quiz"
	"moodlequiz/internal/util"
)

type Config struct {
	AppAddr         string        `mapstructure:"APP_ADDR"`
	MetricsAddr     string        `mapstructure:"METRICS_ADDR"`
	PprofAddr       string        `mapstructure:"PPROF_ADDR"`
	IsDev           bool          `mapstructure:"IS_DEV"`
	MoodleHostURL   string        `mapstructure:"MOODLE_HOST_URL"`
	MoodleToken     string        `mapstructure:"MOODLE_TOKEN"`
	MoodleTimeout   time.Duration `mapstructure:"MOODLE_TIMEOUT"`
	MoodleRateLimit float64       `mapstructure:"MOODLE_RATE_LIMIT"`
	MoodleRateBurst int           `mapstructure:"MOODLE_RATE_BURST"`
	CourseIDs       string        `mapstructure:"COURSE_IDS"`
	ExtractorMode   string        `mapstructure:"EXTRACTOR_MODE"`
	AttemptStateTTL time.Duration `mapstructure:"ATTEMPT_STATE_TTL"`
	BasicAuthUser   string        `mapstructure:"BASIC_AUTH_USER"`
	BasicAuthPass   string        `mapstructure:"BASIC_AUTH_PASS"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`
	RateLimit       float64       `mapstructure:"RATE_LIMIT"`
	RateBurst       int           `mapstructure:"RATE_BURST"`
	TrustedProxies  string        `mapstructure:"TRUSTED_PROXIES"`
}

var AppConfig *Config

// LoadEnv reads .env and the process environment into AppConfig and exits on invalid settings.
func LoadEnv() {
	cfg, err := Load(".env")
	if err != nil {
		log.Logger.Fatal("Invalid configuration", zap.Error(err))
	}
	AppConfig = cfg
}

// Load reads the given env file, when present, and then the environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(envFile)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Logger.Info("env file not read, using environment only", zap.String("file", envFile), zap.Error(err))
	}

	v.AutomaticEnv()

	v.SetDefault(APP_ADDR, ":8080")
	v.SetDefault(METRICS_ADDR, ":8081")
	v.SetDefault(PPROF_ADDR, ":6060")
	v.SetDefault(IS_DEV, false)
	v.SetDefault(MOODLE_HOST_URL, "http://localhost:3000")
	v.SetDefault(MOODLE_TOKEN, "")
	v.SetDefault(MOODLE_TIMEOUT, 30*time.Second)
	v.SetDefault(MOODLE_RATE_LIMIT, 5.0)
	v.SetDefault(MOODLE_RATE_BURST, 10)
	v.SetDefault(COURSE_IDS, "1,2,3")
	v.SetDefault(EXTRACTOR_MODE, quiz.ModeDOM)
	v.SetDefault(ATTEMPT_STATE_TTL, 3*time.Hour)
	v.SetDefault(BASIC_AUTH_USER, "")
	v.SetDefault(BASIC_AUTH_PASS, "")
	v.SetDefault(CORS_ORIGINS, "*")
	v.SetDefault(RATE_LIMIT, 1.0)
	v.SetDefault(RATE_BURST, 3)
	v.SetDefault(TRUSTED_PROXIES, "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.MoodleHostURL = strings.TrimRight(c.MoodleHostURL, "/")
	if !util.IsValidURL(c.MoodleHostURL) {
		return fmt.Errorf("%s %q is not an http(s) url", MOODLE_HOST_URL, c.MoodleHostURL)
	}
	if _, err := quiz.NewExtractor(c.ExtractorMode); err != nil {
		return fmt.Errorf("%s: %w", EXTRACTOR_MODE, err)
	}
	if _, err := c.Courses(); err != nil {
		return err
	}
	if (c.BasicAuthUser == "") != (c.BasicAuthPass == "") {
		return fmt.Errorf("%s and %s must be set together", BASIC_AUTH_USER, BASIC_AUTH_PASS)
	}
	if c.MoodleRateLimit <= 0 || c.MoodleRateBurst <= 0 {
		return fmt.Errorf("%s and %s must be positive", MOODLE_RATE_LIMIT, MOODLE_RATE_BURST)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("%s and %s must be positive", RATE_LIMIT, RATE_BURST)
	}
	if _, err := c.Proxies(); err != nil {
		return fmt.Errorf("%s: %w", TRUSTED_PROXIES, err)
	}
	if c.AttemptStateTTL <= 0 {
		return fmt.Errorf("%s must be positive", ATTEMPT_STATE_TTL)
	}
	return nil
}

// Courses parses the comma separated COURSE_IDS list.
func (c *Config) Courses() ([]int, error) {
	return util.ParseIDs(c.CourseIDs)
}

// Proxies parses TRUSTED_PROXIES. X-Forwarded-For is honoured only from these peers.
func (c *Config) Proxies() ([]netip.Prefix, error) {
	return util.ParsePrefixes(c.TrustedProxies)
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// BasicAuthEnabled reports whether both credentials are configured.
func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuthUser != "" && c.BasicAuthPass != ""
}
