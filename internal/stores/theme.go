package stores

import (
	"sync"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/storage"
)

// Theme values persisted under the theme key
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ThemeStore manages the persisted display theme
type ThemeStore struct {
	mu     sync.RWMutex
	isDark bool

	storage storage.Store
	logger  *logger.Logger
}

// NewThemeStore creates a theme store, restoring the persisted choice.
// An absent or unreadable value defaults to light.
func NewThemeStore(store storage.Store, log *logger.Logger) *ThemeStore {
	t := &ThemeStore{storage: store, logger: log}
	if saved, ok := store.Get(storage.KeyTheme); ok {
		t.isDark = saved == ThemeDark
	}
	return t
}

// IsDark reports whether the dark theme is active
func (t *ThemeStore) IsDark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isDark
}

// Current returns the active theme name
func (t *ThemeStore) Current() string {
	if t.IsDark() {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips the theme and persists the choice
func (t *ThemeStore) Toggle() {
	t.mu.Lock()
	t.isDark = !t.isDark
	t.mu.Unlock()

	t.persist()
}

// Set activates the named theme and persists the choice
func (t *ThemeStore) Set(theme string) {
	t.mu.Lock()
	t.isDark = theme == ThemeDark
	t.mu.Unlock()

	t.persist()
}

func (t *ThemeStore) persist() {
	if err := t.storage.Set(storage.KeyTheme, t.Current()); err != nil {
		t.logger.WithComponent("theme").WithError(err).Warn("Failed to persist theme")
	}
}
