package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.APIPrefix != "/api/v0" || cfg.StoreDriver != StoreMongo {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "clubhub" {
		t.Errorf("expected default database clubhub, got %q", cfg.Mongo.Database)
	}
	if cfg.RateLimit.Max != 50 || cfg.RateLimit.Window != time.Hour {
		t.Errorf("expected 50 per hour, got %d per %v", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	if cfg.DomainLimits() != domain.DefaultLimits {
		t.Errorf("default limits drifted: %+v", cfg.DomainLimits())
	}
	if cfg.EmailPolicy() != domain.DefaultEmailPolicy {
		t.Errorf("default email policy drifted: %+v", cfg.EmailPolicy())
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":         "memory",
		"AUTH_PROVIDER":        "jwt",
		"JWT_SECRET":           "s3cret",
		"CLUB_DESCRIPTION_MIN": "50",
		"RATE_LIMIT_WINDOW":    "10m",
		"ENV":                  "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != StoreMemory || cfg.Auth.Provider != AuthJWT {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if got := cfg.DomainLimits().ClubDescription; got.Min != 50 || got.Max != 500 {
		t.Errorf("unexpected description bounds %+v", got)
	}
	if cfg.RateLimit.Window != 10*time.Minute {
		t.Errorf("unexpected window %v", cfg.RateLimit.Window)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown store":  {"STORE_DRIVER": "sqlite"},
		"unknown auth":   {"AUTH_PROVIDER": "ldap"},
		"jwt no secret":  {"AUTH_PROVIDER": "jwt"},
		"zero rate":      {"RATE_LIMIT_MAX": "0"},
		"malformed db":   {"REDIS_DB": "abc"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
