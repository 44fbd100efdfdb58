package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadLocal reads the cached active account from path.
// A missing file returns ErrNotFound; a corrupt file is an error so the
// caller can decide whether to re-register.
func LoadLocal(path string) (Account, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("read local account: %w", err)
	}

	var a Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return Account{}, fmt.Errorf("decode local account: %w", err)
	}
	if a.ID == "" {
		return Account{}, fmt.Errorf("decode local account: missing user_id")
	}
	return a, nil
}

// SaveLocal writes the active account to path, creating parent directories
// as needed.
func SaveLocal(path string, a Account) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode local account: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write local account: %w", err)
	}
	return nil
}

// RemoveLocal deletes the cached account file. Missing files are fine.
func RemoveLocal(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove local account: %w", err)
	}
	return nil
}
