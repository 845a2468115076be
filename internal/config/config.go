package config

import (
	"course-monitor/internal/monitor"
	"course-monitor/internal/notifier"
	"course-monitor/internal/scrapers/zajel"
	"course-monitor/internal/tracker"
	"course-monitor/lib/configutil"
	"errors"
	"fmt"
	"os"
	"time"
)

// EnvPrefix is the prefix of environment variables that override the
// configuration files, COURSEMON_SMTP__PASSWORD sets smtp.password.
const EnvPrefix = "COURSEMON_"

type PortalConfig struct {
	BaseUrl           string  `json:"base_url" validate:"omitempty,http_url"`
	Endpoint          string  `json:"endpoint" validate:"omitempty,startswith=/"`
	Referer           string  `json:"referer" validate:"omitempty,http_url"`
	UserAgent         string  `json:"user_agent"`
	Cookie            string  `json:"cookie" validate:"required"`
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	FetchTimeout      string  `json:"fetch_timeout" validate:"omitempty,duration"`
}

type SmtpConfig struct {
	Host string `json:"host" validate:"required"`
	Port int    `json:"port" validate:"min=1,max=65535"`
	// Username defaults to From.
	Username           string   `json:"username"`
	Password           string   `json:"password" validate:"required"`
	From               string   `json:"from" validate:"required,email"`
	FromName           string   `json:"from_name"`
	To                 []string `json:"to" validate:"required,min=1,dive,email"`
	SendTimeout        string   `json:"send_timeout" validate:"omitempty,duration"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify"`
}

type CourseConfig struct {
	Code     string   `json:"code" validate:"required,alphanum"`
	Name     string   `json:"name"`
	Sections []string `json:"sections" validate:"required,min=1,dive,required"`
}

type MonitorConfig struct {
	// Schedule is a cron spec or descriptor like "@every 30s".
	Schedule           string `json:"schedule"`
	Timezone           string `json:"timezone" validate:"omitempty,timezone"`
	RetryDelay         string `json:"retry_delay" validate:"omitempty,duration"`
	ClearPolicy        string `json:"clear_policy" validate:"omitempty,oneof=course section"`
	FetchFailurePolicy string `json:"fetch_failure_policy" validate:"omitempty,oneof=skip closed"`
}

type LogConfig struct {
	Level string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `json:"file"`
}

type Config struct {
	Portal  PortalConfig   `json:"portal"`
	Smtp    SmtpConfig     `json:"smtp"`
	Courses []CourseConfig `json:"courses"`
	Monitor MonitorConfig  `json:"monitor"`
	Log     LogConfig      `json:"log"`
}

// Scope selects the sections a command depends on. Sections outside the
// scope still get defaults and environment overrides but are not validated,
// so `check` runs without smtp credentials and `test-email` without a
// portal session.
type Scope uint8

const (
	// ScopePortal covers the portal session and the watched courses.
	ScopePortal Scope = 1 << iota
	ScopeSmtp
	ScopeAll = ScopePortal | ScopeSmtp
)

// the root struct name is dropped from validation errors, so these keep
// field paths like portal.cookie
type portalSections struct {
	Portal  PortalConfig   `json:"portal"`
	Courses []CourseConfig `json:"courses" validate:"required,min=1,dive"`
}

type smtpSections struct {
	Smtp SmtpConfig `json:"smtp"`
}

type commonSections struct {
	Monitor MonitorConfig `json:"monitor"`
	Log     LogConfig     `json:"log"`
}

func (c Config) Validate(scope Scope) error {
	errs := []error{
		configutil.Validate(commonSections{Monitor: c.Monitor, Log: c.Log}),
	}
	if scope&ScopePortal != 0 {
		errs = append(errs, configutil.Validate(portalSections{Portal: c.Portal, Courses: c.Courses}))
	}
	if scope&ScopeSmtp != 0 {
		errs = append(errs, configutil.Validate(smtpSections{Smtp: c.Smtp}))
	}
	return errors.Join(errs...)
}

func Defaults() Config {
	return Config{
		Portal: PortalConfig{
			BaseUrl:           zajel.DefaultBaseUrl,
			Endpoint:          zajel.DefaultEndpoint,
			UserAgent:         zajel.DefaultUserAgent,
			RequestsPerSecond: 1,
			FetchTimeout:      monitor.DefaultFetchTimeout.String(),
		},
		Smtp: SmtpConfig{
			Host:        "smtp.gmail.com",
			Port:        587,
			SendTimeout: notifier.DefaultSendTimeout.String(),
		},
		Monitor: MonitorConfig{
			Schedule:           monitor.DefaultSchedule,
			Timezone:           "Asia/Hebron",
			RetryDelay:         monitor.DefaultRetryDelay.String(),
			ClearPolicy:        tracker.DefaultPolicy.Name(),
			FetchFailurePolicy: string(monitor.FetchFailureSkip),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads `path` (and its .local variant), fills unset fields with
// Defaults, applies environment overrides and validates the sections in
// `scope`. A missing file is fine as long as the environment supplies every
// required value.
func Load(path string, scope Scope) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	err = configutil.FillDefaults(&cfg, Defaults())
	if err != nil {
		return Config{}, fmt.Errorf("fill defaults: %w", err)
	}
	err = configutil.ApplyEnv(EnvPrefix, &cfg)
	if err != nil {
		return Config{}, err
	}
	err = cfg.Validate(scope)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

func (c Config) ZajelCourses() []zajel.Course {
	out := make([]zajel.Course, len(c.Courses))
	for i, course := range c.Courses {
		out[i] = zajel.Course{
			Code:     course.Code,
			Name:     course.Name,
			Sections: course.Sections,
		}
	}
	return out
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func (c PortalConfig) ClientOptions() (zajel.ClientOptions, error) {
	timeout, err := parseDuration(c.FetchTimeout, monitor.DefaultFetchTimeout)
	if err != nil {
		return zajel.ClientOptions{}, fmt.Errorf("portal.fetch_timeout: %w", err)
	}
	return zajel.ClientOptions{
		BaseUrl:           c.BaseUrl,
		Endpoint:          c.Endpoint,
		Referer:           c.Referer,
		UserAgent:         c.UserAgent,
		Cookie:            c.Cookie,
		Timeout:           timeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}, nil
}

func (c SmtpConfig) EmailOptions() (notifier.EmailOptions, error) {
	timeout, err := parseDuration(c.SendTimeout, notifier.DefaultSendTimeout)
	if err != nil {
		return notifier.EmailOptions{}, fmt.Errorf("smtp.send_timeout: %w", err)
	}
	return notifier.EmailOptions{
		Host:               c.Host,
		Port:               c.Port,
		Username:           c.Username,
		Password:           c.Password,
		From:               c.From,
		FromName:           c.FromName,
		To:                 c.To,
		SendTimeout:        timeout,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}, nil
}
