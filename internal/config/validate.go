package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration is usable for the given mode.
// Modes: "enrich" (CLI enrichment), "serve" (HTTP server), "runs"
// (run history commands). Provider credentials are not required here;
// an unconfigured provider is simply skipped by the registry.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "enrich":
		check(c.Enrich.ProviderTimeoutSecs > 0, "enrich.provider_timeout_secs must be > 0")
		check(c.Enrich.TimeoutSecs > 0, "enrich.timeout_secs must be > 0")
		check(c.Enrich.TimeoutSecs >= c.Enrich.ProviderTimeoutSecs,
			"enrich.timeout_secs must be >= enrich.provider_timeout_secs")
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
		check(c.Enrich.ProviderTimeoutSecs > 0, "enrich.provider_timeout_secs must be > 0")
		check(c.Enrich.TimeoutSecs > 0, "enrich.timeout_secs must be > 0")
	case "runs":
		switch c.Store.Driver {
		case "sqlite":
			check(c.Store.Path != "", "store.path is required for sqlite")
		case "postgres":
			check(c.Store.DatabaseURL != "", "store.database_url is required for postgres")
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
