// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed file contents are the value.
//
// The pipeline reads these keys: entrez-email, entrez-api-key,
// scopus-api-key, wos-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KnownKeys lists the secret names the pipeline consumes. Other files are
// still loaded, so a config can carry extra credentials, but a warning makes
// typos visible.
var KnownKeys = []string{"entrez-email", "entrez-api-key", "scopus-api-key", "wos-api-key"}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files and unrecognized key names produce warnings on stderr but
// do not abort.
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
		if value == "" {
			continue
		}
		if !known(name) {
			fmt.Fprintf(os.Stderr, "warning: unrecognized secret %s (expected one of %v)\n", name, KnownKeys)
		}
		secrets[name] = value
	}

	return secrets, nil
}

func known(name string) bool {
	for _, k := range KnownKeys {
		if k == name {
			return true
		}
	}
	return false
}
