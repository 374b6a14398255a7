package config

import "time"

// SiteConfig holds crawl settings for one domain, or the file-level
// defaults. Zero values mean "not set"; non-zero values override flags
// left at their defaults.
type SiteConfig struct {
	// FlushEvery overrides the snapshot flush interval for this domain.
	FlushEvery int `yaml:"flushEvery,omitempty"`

	// Timeout overrides the per-fetch timeout for this domain.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Workers overrides the fetcher pool size for this domain.
	Workers int `yaml:"workers,omitempty"`

	// MaxPages overrides the page cap for this domain.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Delay overrides the politeness delay for this domain. Sites that
	// rate limit aggressively should set this.
	Delay time.Duration `yaml:"delay,omitempty"`

	// UserAgent overrides the User-Agent header for this domain.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .siteindex configuration file.
type File struct {
	// Defaults applies to every crawl unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps a domain (the seed URL's authority, e.g. "docs.example.com")
	// to its crawl settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the settings for a domain, with the file-level
// defaults filled in where the site entry leaves a field unset.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	site, ok := cf.Sites[domain]
	if !ok {
		return result
	}

	if site.FlushEvery != 0 {
		result.FlushEvery = site.FlushEvery
	}
	if site.Timeout != 0 {
		result.Timeout = site.Timeout
	}
	if site.Workers != 0 {
		result.Workers = site.Workers
	}
	if site.MaxPages != 0 {
		result.MaxPages = site.MaxPages
	}
	if site.Delay != 0 {
		result.Delay = site.Delay
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	return result
}

// Apply overlays the site settings onto cfg. Only fields that are set in
// the site config are copied. Callers re-apply explicitly set CLI flags
// afterwards, so flags take precedence over the file.
func (sc SiteConfig) Apply(cfg *Config) {
	if sc.FlushEvery != 0 {
		cfg.FlushEvery = sc.FlushEvery
	}
	if sc.Timeout != 0 {
		cfg.Timeout = sc.Timeout
	}
	if sc.Workers != 0 {
		cfg.Workers = sc.Workers
	}
	if sc.MaxPages != 0 {
		cfg.MaxPages = sc.MaxPages
	}
	if sc.Delay != 0 {
		cfg.Delay = sc.Delay
	}
	if sc.UserAgent != "" {
		cfg.UserAgent = sc.UserAgent
	}
}
