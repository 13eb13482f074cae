// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/chirp/internal/logging"
)

// LoadSecrets reads all files in dir and returns a map of filename to
// trimmed contents. A missing directory is not an error; LoadSecrets
// returns an empty map. Unreadable files are logged and skipped.
//
// Recognized key files: auth-token, ct0, cookie.
func LoadSecrets(dir string, log *logging.Logger) (map[string]string, error) {
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
			logging.OrNop(log).Warn("credentials", "secret_unreadable", logging.Fields{"name": name, "error": err.Error()})
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
