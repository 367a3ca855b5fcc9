// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if len(cfg.Credentials) != 1 {
		t.Fatalf("len(Credentials) = %d, want 1", len(cfg.Credentials))
	}

	entry := cfg.Credentials[0]
	if entry.ContentVar != "FIREBASE_ADMIN_JSON" {
		t.Errorf("ContentVar = %q, want FIREBASE_ADMIN_JSON", entry.ContentVar)
	}
	if entry.Path != "/app/firebase-admin.json" {
		t.Errorf("Path = %q, want /app/firebase-admin.json", entry.Path)
	}
	if entry.PathVar != "GOOGLE_APPLICATION_CREDENTIALS" {
		t.Errorf("PathVar = %q, want GOOGLE_APPLICATION_CREDENTIALS", entry.PathVar)
	}
}

func TestLoadWithoutEnvReturnsDefault(t *testing.T) {
	t.Setenv(Env, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Credentials) != 1 || cfg.Credentials[0].ContentVar != "FIREBASE_ADMIN_JSON" {
		t.Errorf("Load without %s did not return the default config: %+v", Env, cfg)
	}
}

func TestLoadFile(t *testing.T) {
	content := `
credentials:
  - content_var: FIREBASE_ADMIN_JSON
    path: /app/firebase-admin.json
    path_var: GOOGLE_APPLICATION_CREDENTIALS
  - content_var: ANALYTICS_KEY_JSON
    path: /app/analytics-key.json
    sealed: true
launch:
  command: ["uvicorn", "app:app", "--host", "0.0.0.0", "--port", "8080"]
state_dir: /var/lib/svcboot
identity_file: /etc/svcboot/identity.txt
`
	path := filepath.Join(t.TempDir(), "svcboot.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if len(cfg.Credentials) != 2 {
		t.Fatalf("len(Credentials) = %d, want 2", len(cfg.Credentials))
	}
	if !cfg.Credentials[1].Sealed {
		t.Error("Credentials[1].Sealed = false, want true")
	}
	if len(cfg.Launch.Command) != 6 || cfg.Launch.Command[0] != "uvicorn" {
		t.Errorf("Launch.Command = %v", cfg.Launch.Command)
	}
	if cfg.StateDir != "/var/lib/svcboot" {
		t.Errorf("StateDir = %q, want /var/lib/svcboot", cfg.StateDir)
	}
	if cfg.IdentityFile != "/etc/svcboot/identity.txt" {
		t.Errorf("IdentityFile = %q, want /etc/svcboot/identity.txt", cfg.IdentityFile)
	}
}

func TestLoadFileExpandsVariables(t *testing.T) {
	t.Setenv("SVCBOOT_TEST_APP_DIR", "/srv/foodapi")

	content := `
credentials:
  - content_var: FIREBASE_ADMIN_JSON
    path: ${SVCBOOT_TEST_APP_DIR}/firebase-admin.json
state_dir: ${SVCBOOT_TEST_STATE_DIR:-/var/lib/svcboot}
`
	path := filepath.Join(t.TempDir(), "svcboot.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Credentials[0].Path != "/srv/foodapi/firebase-admin.json" {
		t.Errorf("Path = %q, want /srv/foodapi/firebase-admin.json", cfg.Credentials[0].Path)
	}
	if cfg.StateDir != "/var/lib/svcboot" {
		t.Errorf("StateDir = %q, want default expansion /var/lib/svcboot", cfg.StateDir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile of missing file succeeded, want error")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "no credentials",
			cfg:     Config{},
			wantErr: "at least one credential",
		},
		{
			name: "missing content var",
			cfg: Config{Credentials: []CredentialSpec{
				{Path: "/app/creds.json"},
			}},
			wantErr: "content_var is required",
		},
		{
			name: "missing path",
			cfg: Config{Credentials: []CredentialSpec{
				{ContentVar: "CREDS"},
			}},
			wantErr: "path is required",
		},
		{
			name: "relative path",
			cfg: Config{Credentials: []CredentialSpec{
				{ContentVar: "CREDS", Path: "creds.json"},
			}},
			wantErr: "must be absolute",
		},
		{
			name: "duplicate path",
			cfg: Config{Credentials: []CredentialSpec{
				{ContentVar: "A", Path: "/app/creds.json"},
				{ContentVar: "B", Path: "/app/creds.json"},
			}},
			wantErr: "duplicate path",
		},
		{
			name: "sealed without identity",
			cfg: Config{Credentials: []CredentialSpec{
				{ContentVar: "CREDS", Path: "/app/creds.json", Sealed: true},
			}},
			wantErr: "identity_file is required",
		},
		{
			name: "relative state dir",
			cfg: Config{
				Credentials: []CredentialSpec{{ContentVar: "CREDS", Path: "/app/creds.json"}},
				StateDir:    "state",
			},
			wantErr: "state_dir",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not contain %q", err, test.wantErr)
			}
		})
	}
}
