// Package config provides YAML configuration parsing for the outreach tracker.
//
// This package enables running the tracker as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Springfield District Outreach
//	port: 8080
//	log_level: info
//	log_format: json
//
//	digest:
//	  schedule: "0 9 * * 1-5"
//
//	notifiers:
//	  webhooks:
//	    - url: https://hooks.example.com/outreach
//	      timeout: 5s
//	      headers:
//	        Authorization: Bearer ${HOOK_TOKEN}
//	  telegram:
//	    token: ${TELEGRAM_TOKEN}
//	    chat_id: -1001234567890
//
//	schools:
//	  - name: Lincoln High
//	    contact_person: Jane Doe
//	    phone: 555-0100
//
// Scalar settings can be overridden with OUTREACH_* environment variables;
// see [Describe] for the full list.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// minWebhookTimeout is the smallest explicit webhook timeout accepted.
const minWebhookTimeout = 1 * time.Second

// Defaults applied by [Parse] when a setting is absent.
const (
	DefaultTitle     = "School Outreach Tracker"
	DefaultPort      = 8080
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Config is the root configuration structure for the outreach tracker.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "School Outreach Tracker".
	Title string `yaml:"title" env:"OUTREACH_TITLE" env-upd:"" env-description:"Dashboard title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port" env:"OUTREACH_PORT" env-upd:"" env-description:"HTTP port for the dashboard and API"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level" env:"OUTREACH_LOG_LEVEL" env-upd:"" env-description:"Log level: debug, info, warn or error"`

	// LogFormat is json or text. Defaults to json.
	LogFormat string `yaml:"log_format" env:"OUTREACH_LOG_FORMAT" env-upd:"" env-description:"Log format: json or text"`

	// Digest configures the periodic outreach digest.
	Digest DigestConfig `yaml:"digest"`

	// Notifiers configures where events and digests are delivered.
	Notifiers NotifiersConfig `yaml:"notifiers"`

	// Schools are loaded into the tracker at startup, in order.
	Schools []SchoolConfig `yaml:"schools"`
}

// DigestConfig configures the periodic digest.
type DigestConfig struct {
	// Schedule is a standard five-field cron spec or a descriptor such as
	// "@daily". Empty disables the digest.
	Schedule string `yaml:"schedule" env:"OUTREACH_DIGEST_SCHEDULE" env-upd:"" env-description:"Cron schedule for the outreach digest"`
}

// NotifiersConfig groups the notification sinks.
type NotifiersConfig struct {
	Webhooks []WebhookConfig `yaml:"webhooks"`
	Telegram TelegramConfig  `yaml:"telegram"`
}

// WebhookConfig defines a webhook sink that receives every event and digest
// as a JSON POST.
type WebhookConfig struct {
	// URL is the receiver endpoint.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// TelegramConfig defines the Telegram sink. Token and ChatID must be set
// together; leaving both empty disables the sink.
type TelegramConfig struct {
	// Token is the bot token. Supports environment variable substitution.
	Token string `yaml:"token" env:"OUTREACH_TELEGRAM_TOKEN" env-upd:"" env-description:"Telegram bot token"`

	// ChatID is the chat that receives messages.
	ChatID int64 `yaml:"chat_id" env:"OUTREACH_TELEGRAM_CHAT_ID" env-upd:"" env-description:"Telegram chat id"`
}

// Enabled reports whether any Telegram setting is present.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" || t.ChatID != 0
}

// SchoolConfig is a seed school.
type SchoolConfig struct {
	Name          string `yaml:"name"`
	ContactPerson string `yaml:"contact_person"`
	Phone         string `yaml:"phone"`
	Email         string `yaml:"email"`
	Address       string `yaml:"address"`
	Notes         string `yaml:"notes"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded and OUTREACH_* overrides
// applied before validation. Returns an error if the file cannot be read,
// parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// OUTREACH_* environment variables override the matching scalar settings.
// Environment variables are expanded in webhook URLs, webhook header values
// and the Telegram token. Defaults are applied for Title, Port, LogLevel
// and LogFormat. Empty data is a valid configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Describe returns a human-readable list of the environment variables
// that override configuration settings.
func Describe() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}

	if c.Digest.Schedule != "" {
		if _, err := cron.ParseStandard(c.Digest.Schedule); err != nil {
			return fmt.Errorf("digest.schedule: invalid cron spec %q: %w", c.Digest.Schedule, err)
		}
	}

	for i := range c.Notifiers.Webhooks {
		if err := c.Notifiers.Webhooks[i].expandAndValidate(i); err != nil {
			return err
		}
	}

	if err := c.Notifiers.Telegram.expandAndValidate(); err != nil {
		return err
	}

	for i, s := range c.Schools {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("schools[%d]: name is required", i)
		}
	}

	return nil
}

func (w *WebhookConfig) expandAndValidate(i int) error {
	if w.URL == "" {
		return fmt.Errorf("notifiers.webhooks[%d]: url is required", i)
	}
	expanded, err := expandEnvVars(w.URL)
	if err != nil {
		return fmt.Errorf("notifiers.webhooks[%d]: url: %w", i, err)
	}
	w.URL = expanded

	parsedURL, err := url.Parse(w.URL)
	if err != nil {
		return fmt.Errorf("notifiers.webhooks[%d]: invalid url: %w", i, err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("notifiers.webhooks[%d]: url must have a scheme (http:// or https://)", i)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("notifiers.webhooks[%d]: url scheme must be http or https, got %q", i, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("notifiers.webhooks[%d]: url must have a host", i)
	}

	for k, v := range w.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("notifiers.webhooks[%d]: headers[%s]: %w", i, k, err)
		}
		w.Headers[k] = expanded
	}

	if w.Timeout != 0 {
		if w.Timeout.Duration() < 0 {
			return fmt.Errorf("notifiers.webhooks[%d]: timeout cannot be negative, got %s", i, w.Timeout.Duration())
		}
		if w.Timeout.Duration() < minWebhookTimeout {
			return fmt.Errorf("notifiers.webhooks[%d]: timeout must be at least %s if specified, got %s",
				i, minWebhookTimeout, w.Timeout.Duration())
		}
	}

	return nil
}

func (t *TelegramConfig) expandAndValidate() error {
	if !t.Enabled() {
		return nil
	}

	expanded, err := expandEnvVars(t.Token)
	if err != nil {
		return fmt.Errorf("notifiers.telegram: token: %w", err)
	}
	t.Token = expanded

	if t.Token == "" {
		return errors.New("notifiers.telegram: token is required when chat_id is set")
	}
	if t.ChatID == 0 {
		return errors.New("notifiers.telegram: chat_id is required when token is set")
	}
	return nil
}
