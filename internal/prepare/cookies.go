package prepare

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radiofm/stagehand/internal/config"
)

// CredMode is the permission bits every staged credential file ends up
// with: owner/group read-write, world read, never executable.
const CredMode = os.FileMode(0o644)

// CredOutcome describes how credential staging ended. Absence is not an
// error; the bot handles a missing cookie file itself.
type CredOutcome string

const (
	// CredKept: the primary file pre-existed and was left untouched.
	CredKept CredOutcome = "kept"
	// CredCopied: the fallback file was copied into the primary path.
	CredCopied CredOutcome = "copied"
	// CredDecoded: the primary file was materialized from COOKIES_BASE64.
	CredDecoded CredOutcome = "decoded"
	// CredAbsent: no source was found; nothing was written.
	CredAbsent CredOutcome = "absent"
)

// stageCredentials applies the at-most-one-copy policy: primary wins,
// fallback is copied only when primary is absent, and the base64
// environment variable is a last resort. Whatever ends up at the
// primary path gets its permissions normalized.
func stageCredentials(dir string, cfg config.CredentialsConfig, getenv func(string) string) (CredOutcome, string, error) {
	primary := filepath.Join(dir, cfg.Primary)
	fallback := filepath.Join(dir, cfg.Fallback)

	if fileExists(primary) {
		if err := os.Chmod(primary, CredMode); err != nil {
			return CredKept, primary, fmt.Errorf("failed to normalize credential permissions: %w", err)
		}
		return CredKept, primary, nil
	}

	if fileExists(fallback) {
		data, err := os.ReadFile(fallback)
		if err != nil {
			return CredAbsent, "", fmt.Errorf("failed to read fallback credentials: %w", err)
		}
		if err := os.WriteFile(primary, data, CredMode); err != nil {
			return CredAbsent, "", fmt.Errorf("failed to copy credentials: %w", err)
		}
		// WriteFile honors umask; chmod makes the target mode exact.
		if err := os.Chmod(primary, CredMode); err != nil {
			return CredCopied, primary, fmt.Errorf("failed to normalize credential permissions: %w", err)
		}
		return CredCopied, primary, nil
	}

	if encoded := getenv(config.EnvCookies); encoded != "" {
		data, err := decodeCookies(encoded)
		if err != nil {
			return CredAbsent, "", fmt.Errorf("failed to decode %s: %w", config.EnvCookies, err)
		}
		if err := os.WriteFile(primary, data, CredMode); err != nil {
			return CredAbsent, "", fmt.Errorf("failed to write decoded credentials: %w", err)
		}
		if err := os.Chmod(primary, CredMode); err != nil {
			return CredDecoded, primary, fmt.Errorf("failed to normalize credential permissions: %w", err)
		}
		return CredDecoded, primary, nil
	}

	return CredAbsent, "", nil
}

// decodeCookies decodes base64 cookie data, repairing stripped '='
// padding first. Deployment dashboards tend to trim trailing '=' from
// pasted secrets.
func decodeCookies(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if missing := len(encoded) % 4; missing != 0 {
		encoded += strings.Repeat("=", 4-missing)
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
