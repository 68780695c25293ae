package config

import (
	"testing"
	"time"

	"quasarindexer/internal/coordinator"
	"quasarindexer/internal/ledger/retry"
)

func baseConfig() Config {
	return Config{
		QuasarDatabaseURL:      "postgres://quasar",
		StellarNodeDatabaseURL: "postgres://node",
		Ingestion: IngestionConfig{
			Mode:            coordinator.ModeWatch,
			BucketsPath:     "./buckets",
			PollingInterval: 5 * time.Second,
		},
		Retry: retry.Config{},
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c Config) Config
		wantErr bool
	}{
		{
			name:   "valid watch mode",
			mutate: func(c Config) Config { return c },
		},
		{
			name: "valid poll mode",
			mutate: func(c Config) Config {
				c.Ingestion.Mode = coordinator.ModePoll
				return c
			},
		},
		{
			name: "missing quasar database url",
			mutate: func(c Config) Config {
				c.QuasarDatabaseURL = ""
				return c
			},
			wantErr: true,
		},
		{
			name: "missing node database url",
			mutate: func(c Config) Config {
				c.StellarNodeDatabaseURL = ""
				return c
			},
			wantErr: true,
		},
		{
			name: "missing buckets path in watch mode",
			mutate: func(c Config) Config {
				c.Ingestion.BucketsPath = ""
				return c
			},
			wantErr: true,
		},
		{
			name: "unknown mode",
			mutate: func(c Config) Config {
				c.Ingestion.Mode = coordinator.Mode("bogus")
				return c
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := c.mutate(baseConfig())
			err := cfg.Validate()
			if c.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want an error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}
