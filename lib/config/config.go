// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Env is the environment variable naming the config file for Load.
const Env = "SVCBOOT_CONFIG"

// Config is the svcboot configuration: which credentials to
// materialize before handoff, and how to launch the application.
type Config struct {
	// Credentials are materialized in order before exec. Any entry
	// failing aborts startup.
	Credentials []CredentialSpec `yaml:"credentials"`

	// Launch configures the delegated application process.
	Launch LaunchConfig `yaml:"launch"`

	// StateDir is where boot marks are written. Empty disables boot
	// marks (the default: containers rarely mount writable state).
	StateDir string `yaml:"state_dir"`

	// IdentityFile is the age identity used to decrypt sealed
	// credential entries. Required when any entry sets sealed: true.
	IdentityFile string `yaml:"identity_file"`
}

// CredentialSpec describes one credential file to materialize from an
// environment variable.
type CredentialSpec struct {
	// ContentVar names the environment variable holding the
	// credential content. Unset or empty means this entry writes
	// nothing (the file may be mounted by other means).
	ContentVar string `yaml:"content_var"`

	// Path is where the content is written, mode 0600.
	Path string `yaml:"path"`

	// PathVar optionally names an environment variable that the
	// application reads to locate the file. When the variable is not
	// already set, svcboot sets it to Path. An existing value always
	// wins.
	PathVar string `yaml:"path_var,omitempty"`

	// Sealed marks the content as age-encrypted (base64 ciphertext
	// produced by svcboot-seal). Requires IdentityFile.
	Sealed bool `yaml:"sealed,omitempty"`
}

// LaunchConfig configures the application process.
type LaunchConfig struct {
	// Command is the default command and arguments, used when the
	// svcboot invocation does not supply one after "--". The
	// command-line form always wins.
	Command []string `yaml:"command"`
}

// Default returns the configuration for the standard single-credential
// deployment: the Firebase service-account JSON arrives in
// FIREBASE_ADMIN_JSON, lands at /app/firebase-admin.json, and
// GOOGLE_APPLICATION_CREDENTIALS is pointed at it unless the
// orchestrator set that variable itself.
func Default() *Config {
	return &Config{
		Credentials: []CredentialSpec{
			{
				ContentVar: "FIREBASE_ADMIN_JSON",
				Path:       "/app/firebase-admin.json",
				PathVar:    "GOOGLE_APPLICATION_CREDENTIALS",
			},
		},
	}
}

// Load loads configuration from the file named by SVCBOOT_CONFIG.
// When the variable is unset, the built-in Default is returned — the
// single-credential deployment needs no file.
func Load() (*Config, error) {
	configPath := os.Getenv(Env)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The file
// replaces the default credential list entirely; it does not merge
// with it. ${VAR} and ${VAR:-default} patterns in path fields are
// expanded from the process environment after parsing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in all
// path-valued fields.
func (c *Config) expandVariables() {
	for i := range c.Credentials {
		c.Credentials[i].Path = expandVars(c.Credentials[i].Path)
	}
	c.StateDir = expandVars(c.StateDir)
	c.IdentityFile = expandVars(c.IdentityFile)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Credentials) == 0 {
		errs = append(errs, fmt.Errorf("at least one credential entry is required"))
	}

	seenPaths := make(map[string]bool)
	needsIdentity := false
	for index, entry := range c.Credentials {
		if entry.ContentVar == "" {
			errs = append(errs, fmt.Errorf("credentials[%d]: content_var is required", index))
		}
		if entry.Path == "" {
			errs = append(errs, fmt.Errorf("credentials[%d]: path is required", index))
		} else if !filepath.IsAbs(entry.Path) {
			errs = append(errs, fmt.Errorf("credentials[%d]: path %q must be absolute", index, entry.Path))
		} else if seenPaths[entry.Path] {
			errs = append(errs, fmt.Errorf("credentials[%d]: duplicate path %q", index, entry.Path))
		} else {
			seenPaths[entry.Path] = true
		}
		if entry.Sealed {
			needsIdentity = true
		}
	}

	if needsIdentity && c.IdentityFile == "" {
		errs = append(errs, fmt.Errorf("identity_file is required when a credential is marked sealed"))
	}

	if c.StateDir != "" && !filepath.IsAbs(c.StateDir) {
		errs = append(errs, fmt.Errorf("state_dir %q must be absolute", c.StateDir))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
