package config

const (
	APP_ADDR          = "APP_ADDR"
	METRICS_ADDR      = "METRICS_ADDR"
	PPROF_ADDR        = "PPROF_ADDR"
	IS_DEV            = "IS_DEV"
	MOODLE_HOST_URL   = "MOODLE_HOST_URL"
	MOODLE_TOKEN      = "MOODLE_TOKEN"
	MOODLE_TIMEOUT    = "MOODLE_TIMEOUT"
	MOODLE_RATE_LIMIT = "MOODLE_RATE_LIMIT"
	MOODLE_RATE_BURST = "MOODLE_RATE_BURST"
	COURSE_IDS        = "COURSE_IDS"
	EXTRACTOR_MODE    = "EXTRACTOR_MODE"
	ATTEMPT_STATE_TTL = "ATTEMPT_STATE_TTL"
	BASIC_AUTH_USER   = "BASIC_AUTH_USER"
	BASIC_AUTH_PASS   = "BASIC_AUTH_PASS"
	CORS_ORIGINS      = "CORS_ORIGINS"
	RATE_LIMIT        = "RATE_LIMIT"
	RATE_BURST        = "RATE_BURST"
	TRUSTED_PROXIES   = "TRUSTED_PROXIES"
)
