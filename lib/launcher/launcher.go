// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/foodactivity/svcboot/lib/bootmark"
	"github.com/foodactivity/svcboot/lib/config"
	"github.com/foodactivity/svcboot/lib/fingerprint"
	"github.com/foodactivity/svcboot/lib/sealed"
	"github.com/foodactivity/svcboot/lib/secret"
)

// markMaxAge is the maximum age of a boot mark that is treated as
// evidence of a crash loop. Container runtimes back off restarts to a
// few minutes at most; a mark older than this is from an unrelated
// earlier deployment and is silently ignored.
const markMaxAge = 15 * time.Minute

// markFileName is the boot mark file inside the state directory.
const markFileName = "boot-mark.cbor"

// ExecFunc is the process-replacement primitive. The production value
// is syscall.Exec; tests substitute a recorder.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Launcher performs the startup sequence for one container boot.
type Launcher struct {
	// Config names the credentials to materialize and, optionally,
	// the state directory and age identity file.
	Config *config.Config

	// Command is the application command and arguments. Must be
	// non-empty by the time Run is called.
	Command []string

	// Logger receives one structured record per step. Credential
	// content never appears in log output; fingerprints only.
	Logger *slog.Logger

	// ExecFunc replaces the process image. Nil means syscall.Exec.
	ExecFunc ExecFunc
}

// Run executes the startup sequence: crash-loop check, credential
// materialization, path variable defaulting, command validation, boot
// mark, exec. On success it never returns. Any error aborts the whole
// sequence — the caller exits non-zero without launching the
// application.
func (l *Launcher) Run() error {
	if len(l.Command) == 0 {
		return fmt.Errorf("no application command configured")
	}
	if err := l.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l.reportPreviousBoot()

	identity, err := l.loadIdentity()
	if err != nil {
		return err
	}
	if identity != nil {
		defer identity.Close()
	}

	written, err := l.materializeAll(identity)
	if err != nil {
		return err
	}

	l.defaultPathVariables()

	binaryPath, err := resolveCommand(l.Command[0])
	if err != nil {
		return err
	}
	l.Logger.Info("application command validated",
		"binary", binaryPath,
		"args", l.Command[1:],
	)

	if err := l.writeMark(written); err != nil {
		return err
	}

	return l.exec(binaryPath)
}

// reportPreviousBoot checks the boot mark from the previous process
// lifetime. A recent mark means the application died shortly after the
// last handoff and the container runtime restarted it. Read-side
// problems are logged and ignored — a corrupt mark must not block a
// boot that could otherwise succeed.
func (l *Launcher) reportPreviousBoot() {
	if l.Config.StateDir == "" {
		return
	}
	markPath := filepath.Join(l.Config.StateDir, markFileName)

	mark, found, err := bootmark.Check(markPath, markMaxAge)
	if err != nil {
		l.Logger.Warn("unreadable boot mark ignored", "path", markPath, "error", err)
		return
	}
	if !found {
		return
	}

	l.Logger.Warn("previous application process exited shortly after handoff",
		"previous_boot", mark.Timestamp,
		"previous_command", strings.Join(mark.Command, " "),
		"previous_credentials", mark.Credentials,
	)
}

// loadIdentity loads the age identity when any credential entry is
// sealed. Returns nil when no entry needs decryption.
func (l *Launcher) loadIdentity() (*secret.Buffer, error) {
	needed := false
	for _, entry := range l.Config.Credentials {
		if entry.Sealed {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}

	identity, err := sealed.LoadIdentityFile(l.Config.IdentityFile)
	if err != nil {
		return nil, fmt.Errorf("loading age identity: %w", err)
	}
	l.Logger.Info("age identity loaded", "path", l.Config.IdentityFile)
	return identity, nil
}

// materializeAll writes every credential whose content variable is set
// and non-empty. Returns path -> fingerprint for the boot mark. An
// unset content variable skips its entry silently — the file may be
// mounted into the container by other means.
func (l *Launcher) materializeAll(identity *secret.Buffer) (map[string]string, error) {
	written := make(map[string]string)

	for _, entry := range l.Config.Credentials {
		content, ok, err := secret.FromEnv(entry.ContentVar)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.ContentVar, err)
		}
		if !ok {
			l.Logger.Info("credential variable not set, skipping",
				"variable", entry.ContentVar,
				"path", entry.Path,
			)
			continue
		}

		if entry.Sealed {
			decrypted, err := l.unseal(entry.ContentVar, content, identity)
			content.Close()
			if err != nil {
				return nil, err
			}
			content = decrypted
		}

		digest := fingerprint.Sum(content.Bytes())
		if err := writeSecretFile(entry.Path, content.Bytes()); err != nil {
			content.Close()
			return nil, err
		}
		content.Close()

		written[entry.Path] = digest.String()
		l.Logger.Info("credential materialized",
			"variable", entry.ContentVar,
			"path", entry.Path,
			"fingerprint", digest.Short(),
			"sealed", entry.Sealed,
		)
	}

	return written, nil
}

// unseal decrypts a sealed credential value.
func (l *Launcher) unseal(variable string, content *secret.Buffer, identity *secret.Buffer) (*secret.Buffer, error) {
	ciphertext := content.String()
	if !sealed.IsCiphertext(ciphertext) {
		return nil, fmt.Errorf("%s is marked sealed but does not contain sealed ciphertext", variable)
	}

	decrypted, err := sealed.Decrypt(ciphertext, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", variable, err)
	}
	return decrypted, nil
}

// defaultPathVariables points each entry's path variable at its
// credential path unless the orchestrator already set the variable.
// This runs for every entry regardless of whether content was written:
// the application resolves the path the same way whether the file came
// from the environment or from a mounted volume.
func (l *Launcher) defaultPathVariables() {
	for _, entry := range l.Config.Credentials {
		if entry.PathVar == "" {
			continue
		}
		if existing, set := os.LookupEnv(entry.PathVar); set {
			l.Logger.Info("path variable already set, leaving unchanged",
				"variable", entry.PathVar,
				"value", existing,
			)
			continue
		}
		os.Setenv(entry.PathVar, entry.Path)
		l.Logger.Info("path variable defaulted",
			"variable", entry.PathVar,
			"value", entry.Path,
		)
	}
}

// writeMark records the handoff in the state directory. Skipped when
// no state directory is configured. A write failure is fatal: the
// sequence promises that every completed step succeeded.
func (l *Launcher) writeMark(written map[string]string) error {
	if l.Config.StateDir == "" {
		return nil
	}

	if err := os.MkdirAll(l.Config.StateDir, 0700); err != nil {
		return fmt.Errorf("creating state directory %s: %w", l.Config.StateDir, err)
	}

	mark := bootmark.Mark{
		Command:     l.Command,
		Credentials: written,
		Timestamp:   time.Now(),
		PID:         os.Getpid(),
	}
	markPath := filepath.Join(l.Config.StateDir, markFileName)
	if err := bootmark.Write(markPath, mark); err != nil {
		return fmt.Errorf("writing boot mark: %w", err)
	}
	return nil
}

// exec replaces the process image with the application. The argv
// passed through is l.Command unchanged, so the application sees the
// argv[0] it was invoked with; only the binary path is resolved. The
// full environment is inherited, including variables set during the
// sequence.
func (l *Launcher) exec(binaryPath string) error {
	l.Logger.Info("handing off to application", "binary", binaryPath)

	execFunction := l.ExecFunc
	if execFunction == nil {
		execFunction = syscall.Exec
	}

	err := execFunction(binaryPath, l.Command, os.Environ())
	if err == nil {
		// Only reachable with an injected ExecFunc: a real exec(2)
		// does not return on success.
		return nil
	}

	// Reaching here means exec(2) failed and the process was NOT
	// replaced. The mark describes a handoff that never happened.
	if l.Config.StateDir != "" {
		markPath := filepath.Join(l.Config.StateDir, markFileName)
		if clearErr := bootmark.Clear(markPath); clearErr != nil {
			l.Logger.Error("clearing boot mark after failed exec",
				"path", markPath, "error", clearErr)
		}
	}
	return fmt.Errorf("exec %s: %w", binaryPath, err)
}

// resolveCommand resolves the command name to a binary path and
// verifies it is a regular, executable file. Names without a path
// separator are looked up on PATH, matching what execvp would do —
// but failing here produces a precise startup error instead of a
// kernel ENOENT after the mark was written.
func resolveCommand(name string) (string, error) {
	path := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		resolved, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("application command %q not found on PATH: %w", name, err)
		}
		path = resolved
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("application command %q: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("application command %q is not a regular file (mode %s)", path, info.Mode())
	}
	if info.Mode()&0111 == 0 {
		return "", fmt.Errorf("application command %q is not executable (mode %s)", path, info.Mode())
	}
	return path, nil
}
