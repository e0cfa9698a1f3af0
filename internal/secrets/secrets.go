// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ncbi-api-key, entrez-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File names recognized by Credentials.
const (
	// KeyNCBIAPIKey raises the E-utilities rate limit from 3 to 10
	// requests per second.
	KeyNCBIAPIKey = "ncbi-api-key"

	// KeyEntrezEmail identifies the caller to the provider, per its
	// usage etiquette.
	KeyEntrezEmail = "entrez-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Credentials holds the provider credentials resolved from a secrets
// directory.
type Credentials struct {
	// NCBIAPIKey is empty when no key file is present; requests then
	// run at the keyless rate limit.
	NCBIAPIKey string

	// EntrezEmail is sent as the email parameter on every request.
	EntrezEmail string
}

// LoadCredentials loads the secrets directory and picks out the
// provider credentials. Missing files leave fields empty.
func LoadCredentials(dir string) (Credentials, error) {
	secrets, err := Load(dir)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		NCBIAPIKey:  secrets[KeyNCBIAPIKey],
		EntrezEmail: secrets[KeyEntrezEmail],
	}, nil
}
