package config

import (
	"sort"

	"github.com/jpalmerr/outreach"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is not included; callers add [outreach.WithLogger] built from
// LogLevel and LogFormat.
func BuildOptions(cfg *Config) []outreach.Option {
	opts := []outreach.Option{
		outreach.WithTitle(cfg.Title),
		outreach.WithPort(cfg.Port),
	}

	if drafts := BuildDrafts(cfg); len(drafts) > 0 {
		opts = append(opts, outreach.WithSchools(drafts...))
	}

	for _, wh := range cfg.Notifiers.Webhooks {
		opts = append(opts, outreach.WithWebhook(wh.URL, wh.Timeout.Duration(), mapToKeyValuePairs(wh.Headers)...))
	}

	if cfg.Notifiers.Telegram.Enabled() {
		opts = append(opts, outreach.WithTelegram(cfg.Notifiers.Telegram.Token, cfg.Notifiers.Telegram.ChatID))
	}

	if cfg.Digest.Schedule != "" {
		opts = append(opts, outreach.WithDigestSchedule(cfg.Digest.Schedule))
	}

	return opts
}

// BuildDrafts converts the configured seed schools into drafts, in order.
func BuildDrafts(cfg *Config) []outreach.Draft {
	drafts := make([]outreach.Draft, 0, len(cfg.Schools))
	for _, s := range cfg.Schools {
		drafts = append(drafts, outreach.Draft{
			Name:          s.Name,
			ContactPerson: s.ContactPerson,
			Phone:         s.Phone,
			Email:         s.Email,
			Address:       s.Address,
			Notes:         s.Notes,
		})
	}
	return drafts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
