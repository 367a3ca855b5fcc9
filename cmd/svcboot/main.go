// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/foodactivity/svcboot/lib/config"
	"github.com/foodactivity/svcboot/lib/launcher"
	"github.com/foodactivity/svcboot/lib/process"
	"github.com/foodactivity/svcboot/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

// options holds the parsed command line. The credential override flags
// reshape the built-in single-credential default; they cannot be
// combined with --config, which describes credentials exhaustively.
type options struct {
	configPath     string
	credentialEnv  string
	credentialPath string
	pathEnv        string
	sealedContent  bool
	identityFile   string
	stateDir       string
	logLevel       string
	showVersion    bool

	command []string
}

func run() error {
	flags := pflag.NewFlagSet("svcboot", pflag.ContinueOnError)
	flags.Usage = func() { printUsage(flags) }

	var opts options
	flags.StringVar(&opts.configPath, "config", "", "path to svcboot YAML config (default: $SVCBOOT_CONFIG, else built-in defaults)")
	flags.StringVar(&opts.credentialEnv, "credential-env", "", "environment variable holding credential content (overrides the default entry)")
	flags.StringVar(&opts.credentialPath, "credential-path", "", "path where the credential file is written (overrides the default entry)")
	flags.StringVar(&opts.pathEnv, "path-env", "", "environment variable pointed at the credential file (overrides the default entry)")
	flags.BoolVar(&opts.sealedContent, "sealed", false, "treat the credential content as age-sealed ciphertext (requires --identity-file)")
	flags.StringVar(&opts.identityFile, "identity-file", "", "age identity file for sealed credentials")
	flags.StringVar(&opts.stateDir, "state-dir", "", "directory for boot marks (empty disables crash-loop detection)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Printf("svcboot %s\n", version.Info())
		return nil
	}

	opts.command = commandArgs(flags)

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}

	cfg, err := assembleConfig(opts)
	if err != nil {
		return err
	}

	command := opts.command
	if len(command) == 0 {
		command = cfg.Launch.Command
	}
	if len(command) == 0 {
		printUsage(flags)
		return fmt.Errorf("application command required after '--' (or launch.command in the config file)")
	}

	l := &launcher.Launcher{
		Config:  cfg,
		Command: command,
		Logger:  logger,
	}
	return l.Run()
}

// commandArgs extracts the application command from the positional
// arguments. Everything after "--" is the command; without a "--",
// all positional arguments are (the Docker CMD-append convention,
// where the entrypoint receives the command as bare arguments).
func commandArgs(flags *pflag.FlagSet) []string {
	args := flags.Args()
	if at := flags.ArgsLenAtDash(); at >= 0 {
		return args[at:]
	}
	return args
}

// assembleConfig builds the effective configuration: an explicit file
// (--config or SVCBOOT_CONFIG), or the built-in default reshaped by
// the credential override flags. --identity-file and --state-dir apply
// in both cases.
func assembleConfig(opts options) (*config.Config, error) {
	overridesCredential := opts.credentialEnv != "" || opts.credentialPath != "" ||
		opts.pathEnv != "" || opts.sealedContent

	var cfg *config.Config
	switch {
	case opts.configPath != "":
		if overridesCredential {
			return nil, fmt.Errorf("--config describes credentials exhaustively; credential override flags cannot be combined with it")
		}
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded

		if overridesCredential && os.Getenv(config.Env) != "" {
			return nil, fmt.Errorf("%s describes credentials exhaustively; credential override flags cannot be combined with it", config.Env)
		}
		if opts.credentialEnv != "" {
			cfg.Credentials[0].ContentVar = opts.credentialEnv
		}
		if opts.credentialPath != "" {
			cfg.Credentials[0].Path = opts.credentialPath
		}
		if opts.pathEnv != "" {
			cfg.Credentials[0].PathVar = opts.pathEnv
		}
		if opts.sealedContent {
			cfg.Credentials[0].Sealed = true
		}
	}

	if opts.identityFile != "" {
		cfg.IdentityFile = opts.identityFile
	}
	if opts.stateDir != "" {
		cfg.StateDir = opts.stateDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the JSON stderr logger. Logging goes to stderr so
// the application's stdout stays clean for the container runtime.
func newLogger(level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger, nil
}

func printUsage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: svcboot [flags] -- <command> [args...]

Materializes credential files from the environment, then replaces
itself with the application command.

Examples:
  # Default deployment: FIREBASE_ADMIN_JSON -> /app/firebase-admin.json
  svcboot -- uvicorn app:app --host 0.0.0.0 --port 8080

  # Sealed credential with a mounted identity
  svcboot --sealed --identity-file /etc/svcboot/identity.txt -- uvicorn app:app

Flags:
%s`, flags.FlagUsages())
}
