// Package prefs keeps the saved user identity and theme settings in a key-value store.
// The dashboard store never touches it; the CLI reads the saved user as its default.
package prefs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
)

const (
	userKey  = "user"
	themeKey = "theme"
)

// Prefs reads and writes preference documents.
type Prefs struct {
	store contract.KVStore
	now   func() time.Time
}

// New wraps store.
func New(store contract.KVStore) *Prefs {
	return &Prefs{store: store, now: time.Now}
}

// load decodes the document under key into dst. It reports false when nothing is stored.
func (p *Prefs) load(key string, dst any) (bool, error) {
	raw, _, err := p.store.Get(key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (p *Prefs) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.store.Set(key, raw, p.now().Unix()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
