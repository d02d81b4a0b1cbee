package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tarotara/tarotara/internal/credential"
	"github.com/tarotara/tarotara/internal/store"
)

// dataDir resolves where the database lives. TAROTARA_HOME overrides the
// default ~/.tarotara, which keeps tests off the real home directory.
func dataDir() string {
	if dir := os.Getenv("TAROTARA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tarotara")
}

func getStore() store.Storage {
	storeLayer, err := store.NewSQLiteStore(filepath.Join(dataDir(), "tarotara.db"))
	if err != nil {
		fmt.Printf("Failed to init store: %v\n", err)
		os.Exit(1)
	}
	return storeLayer
}

// getSecret reads a config value and decrypts it if it was stored encrypted.
func getSecret(s store.Storage, key string) string {
	val, err := s.GetConfig(key)
	if err != nil || val == "" {
		return ""
	}
	mgr, err := credential.NewManager()
	if err != nil {
		return val
	}
	plain, err := mgr.Decrypt(val)
	if err != nil {
		return ""
	}
	return plain
}
