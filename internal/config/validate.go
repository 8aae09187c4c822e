package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	if err := c.Translate.validate(); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	if err := c.Fetch.validate(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := c.Providers.validate(); err != nil {
		return fmt.Errorf("providers: %w", err)
	}

	if c.ResultCache.MaxEntries <= 0 {
		return fmt.Errorf("result_cache.max_entries must be > 0 (got %d)", c.ResultCache.MaxEntries)
	}
	if c.ResultCache.TTL <= 0 {
		return fmt.Errorf("result_cache.ttl must be > 0 (got %v)", c.ResultCache.TTL)
	}

	if c.History.RetentionDays <= 0 {
		return fmt.Errorf("history.retention_days must be > 0 (got %d)", c.History.RetentionDays)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (t *TranslateConfig) validate() error {
	src, err := language.Parse(t.DefaultSourceLang)
	if err != nil {
		return fmt.Errorf("default_source_lang %q: %w", t.DefaultSourceLang, err)
	}
	tgt, err := language.Parse(t.DefaultTargetLang)
	if err != nil {
		return fmt.Errorf("default_target_lang %q: %w", t.DefaultTargetLang, err)
	}
	if src == tgt {
		return fmt.Errorf("default_source_lang and default_target_lang must differ (both %q)", t.DefaultSourceLang)
	}
	if t.MaxSiteWords <= 0 {
		return fmt.Errorf("max_site_words must be > 0 (got %d)", t.MaxSiteWords)
	}
	return nil
}

func (f *FetchConfig) validate() error {
	if f.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", f.Timeout)
	}
	if f.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache_max_entries must be > 0 (got %d)", f.CacheMaxEntries)
	}
	if f.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0 (got %v)", f.CacheTTL)
	}
	return nil
}

func (p *ProvidersConfig) validate() error {
	for name, raw := range map[string]string{
		"dictionary_site_url": p.DictionarySiteURL,
		"machine_url":         p.MachineURL,
		"phonetic_url":        p.PhoneticURL,
		"corpus_url":          p.CorpusURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.ParseRequestURI(raw)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL (got %q)", name, raw)
		}
	}
	return nil
}
