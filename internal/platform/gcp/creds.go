package gcp

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"
)

// Credentials describes where the service-account bundle comes from. The first non-empty source wins:
// Base64, then JSON, then File.
type Credentials struct {
	Base64 string
	JSON   string
	File   string

	// RestorePath, when set together with Base64, receives the decoded bundle on disk.
	RestorePath string
}

func ClientOptions(c Credentials, scopes ...string) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if len(scopes) > 0 {
		opts = append(opts, option.WithScopes(scopes...))
	}

	if raw := strings.TrimSpace(c.Base64); raw != "" {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("decode credentials bundle: %w", err)
		}
		if p := strings.TrimSpace(c.RestorePath); p != "" {
			if err := writeBundle(p, decoded); err != nil {
				return nil, err
			}
		}
		return append(opts, option.WithCredentialsJSON(decoded)), nil
	}
	if js := strings.TrimSpace(c.JSON); js != "" {
		return append(opts, option.WithCredentialsJSON([]byte(js))), nil
	}
	if f := strings.TrimSpace(c.File); f != "" {
		if strings.HasPrefix(f, "{") {
			return append(opts, option.WithCredentialsJSON([]byte(f))), nil
		}
		return append(opts, option.WithCredentialsFile(f)), nil
	}
	// Fall through to application default credentials.
	return opts, nil
}

func writeBundle(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credentials dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}
