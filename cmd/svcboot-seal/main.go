// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/foodactivity/svcboot/lib/fingerprint"
	"github.com/foodactivity/svcboot/lib/sealed"
	"github.com/foodactivity/svcboot/lib/secret"
	"github.com/foodactivity/svcboot/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "keygen":
		return runKeygen()
	case "seal":
		return runSeal(os.Args[2:])
	case "inspect":
		return runInspect(os.Args[2:])
	case "version":
		fmt.Printf("svcboot-seal %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: svcboot-seal <subcommand> [flags]

Subcommands:
  keygen    Generate an age keypair
  seal      Encrypt credential content for delivery via environment
  inspect   Report on a credential value without printing it
  version   Print version information

Run 'svcboot-seal <subcommand> --help' for subcommand flags.
`)
}

// runKeygen generates a new age keypair and prints it. The public key
// goes to stdout (for embedding in deployment config). The private key
// goes to stderr, so redirecting stdout to a file does not capture it.
func runKeygen() error {
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generating keypair: %w", err)
	}
	defer keypair.Close()

	fmt.Fprintf(os.Stderr, "# Private key (store as the svcboot identity file):\n")
	fmt.Fprintf(os.Stderr, "%s\n", keypair.PrivateKey.String())
	fmt.Fprintf(os.Stdout, "%s\n", keypair.PublicKey)
	return nil
}

// runSeal encrypts credential content to one or more recipients and
// prints the sealed value, ready to paste into a deployment manifest.
func runSeal(args []string) error {
	flags := pflag.NewFlagSet("seal", pflag.ExitOnError)
	var (
		recipients   []string
		fromFile     string
		validateJSON bool
	)
	flags.StringSliceVar(&recipients, "recipient", nil, "age public key to seal to (repeatable; at least one required)")
	flags.StringVar(&fromFile, "from-file", "", "read content from file instead of stdin")
	flags.BoolVar(&validateJSON, "json", false, "require the content to be a JSON object before sealing")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if len(recipients) == 0 {
		flags.Usage()
		return fmt.Errorf("at least one --recipient is required")
	}
	for _, recipient := range recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", recipient, err)
		}
	}

	content, err := readContent(fromFile)
	if err != nil {
		return err
	}
	defer secret.Zero(content)

	if len(content) == 0 {
		return fmt.Errorf("no content provided (pipe to stdin or use --from-file)")
	}

	if validateJSON {
		var decoded map[string]any
		if err := json.Unmarshal(content, &decoded); err != nil {
			return fmt.Errorf("content is not a JSON object: %w", err)
		}
	}

	ciphertext, err := sealed.Encrypt(content, recipients)
	if err != nil {
		return fmt.Errorf("sealing content: %w", err)
	}

	fmt.Fprintln(os.Stdout, ciphertext)
	return nil
}

// runInspect reports on a credential value without revealing its
// content: whether it is sealed, its plaintext length, and its
// fingerprint. For a sealed value the plaintext details require the
// identity file.
func runInspect(args []string) error {
	flags := pflag.NewFlagSet("inspect", pflag.ExitOnError)
	var (
		fromFile     string
		identityFile string
	)
	flags.StringVar(&fromFile, "from-file", "", "read value from file instead of stdin")
	flags.StringVar(&identityFile, "identity-file", "", "age identity file, to inspect sealed plaintext")
	if err := flags.Parse(args); err != nil {
		return err
	}

	value, err := readContent(fromFile)
	if err != nil {
		return err
	}
	defer secret.Zero(value)

	if len(value) == 0 {
		return fmt.Errorf("no value provided (pipe to stdin or use --from-file)")
	}

	if !sealed.IsCiphertext(string(value)) {
		fmt.Fprintf(os.Stdout, "sealed:      false\n")
		fmt.Fprintf(os.Stdout, "length:      %d bytes\n", len(value))
		fmt.Fprintf(os.Stdout, "fingerprint: %s\n", fingerprint.Sum(value))
		return nil
	}

	fmt.Fprintf(os.Stdout, "sealed:      true\n")
	if identityFile == "" {
		fmt.Fprintf(os.Stdout, "length:      unknown (pass --identity-file to decrypt)\n")
		return nil
	}

	identity, err := sealed.LoadIdentityFile(identityFile)
	if err != nil {
		return fmt.Errorf("loading identity file: %w", err)
	}
	defer identity.Close()

	plaintext, err := sealed.Decrypt(string(value), identity)
	if err != nil {
		return fmt.Errorf("unsealing value: %w", err)
	}
	defer plaintext.Close()

	fmt.Fprintf(os.Stdout, "length:      %d bytes\n", plaintext.Len())
	fmt.Fprintf(os.Stdout, "fingerprint: %s\n", fingerprint.Sum(plaintext.Bytes()))
	return nil
}

// readContent reads the value from a file, or stdin when no file is
// given. Trailing newlines are preserved: a credential file's bytes
// are sealed exactly as read.
func readContent(fromFile string) ([]byte, error) {
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fromFile, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}
