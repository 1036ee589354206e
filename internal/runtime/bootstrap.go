package runtime

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	CredentialsFile = "credentials.json"
	TokenFile       = "token.json"
)

// ErrNotSet reports a missing encoded blob.
var ErrNotSet = errors.New("not set")

// DecodeEnvFile base64-decodes encoded and writes it to path.
func DecodeEnvFile(name, encoded, path string) error {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return fmt.Errorf("%s %w", name, ErrNotSet)
	}
	decoded, err := decodeBase64(encoded)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, decoded, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Bootstrap materializes the OAuth client descriptor and token into dir.
func Bootstrap(dir, credentialsB64, tokenB64 string) error {
	if err := DecodeEnvFile("CREDENTIALS_BASE64", credentialsB64, filepath.Join(dir, CredentialsFile)); err != nil {
		return err
	}
	if err := DecodeEnvFile("TOKEN_BASE64", tokenB64, filepath.Join(dir, TokenFile)); err != nil {
		return err
	}
	return nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
