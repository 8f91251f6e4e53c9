package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		want    func(*Config) bool
		wantErr string
	}{
		{
			name: "sqlite defaults",
			body: "site: acme\ndb: /tmp/lists.db\n",
			want: func(c *Config) bool {
				return c.Store == StoreSQLite && c.Site == "acme" && c.Language == DefaultLanguage && c.Retries == DefaultRetries
			},
		},
		{
			name: "graphql",
			body: "store: graphql\nendpoint: https://cms.example.com/modules/graphql\nsite: acme\nlanguage: fr\n",
			want: func(c *Config) bool {
				return c.Store == StoreGraphQL && c.Language == "fr"
			},
		},
		{
			name:    "graphql without endpoint",
			body:    "store: graphql\n",
			wantErr: "endpoint",
		},
		{
			name:    "graphql bad endpoint",
			body:    "store: graphql\nendpoint: not a url\n",
			wantErr: "not a URL",
		},
		{
			name:    "unknown store",
			body:    "store: redis\n",
			wantErr: "store",
		},
		{
			name:    "bad log level",
			body:    "loglevel: chatty\n",
			wantErr: "loglevel",
		},
		{
			name: "env overrides file",
			body: "site: acme\n",
			env:  map[string]string{"CONTROLLED_LISTS_SITE": "other", "CONTROLLED_LISTS_RETRIES": "5"},
			want: func(c *Config) bool {
				return c.Site == "other" && c.Retries == 5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(viper.New(), writeConfig(t, tt.body))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, "db: ~/lists.db\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasPrefix(cfg.DB, "~") {
		t.Errorf("db path not expanded: %q", cfg.DB)
	}
}
