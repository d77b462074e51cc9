package i18n

import (
	"context"
	"errors"
	"sync"

	"marketfront/internal/localstore"

	"go.uber.org/zap"
)

// Locale codes. Uzbek is the default locale; the default-locale field of every
// content entity is always present, the ru/en fields are optional.
const (
	LocaleUz = "uz"
	LocaleRu = "ru"
	LocaleEn = "en"

	DefaultLocale = LocaleUz
)

func known(locale string) bool {
	return locale == LocaleUz || locale == LocaleRu || locale == LocaleEn
}

// Store owns the active locale and resolves UI strings and tri-locale entity
// fields. Resolution is pure and total: it never errors and never returns an
// empty string for a key that has a default-locale value.
type Store struct {
	mu     sync.RWMutex
	active string

	storage localstore.Store
	log     *zap.Logger

	// Notify, when set, is invoked after every locale change with the new code.
	Notify func(locale string)
}

// New restores the persisted locale, falling back to the default when nothing
// is stored or the stored value is unrecognized.
func New(storage localstore.Store, log *zap.Logger) *Store {
	s := &Store{active: DefaultLocale, storage: storage, log: log}

	var saved string
	err := storage.GetJSON(context.Background(), localstore.KeyLocale, &saved)
	switch {
	case err == nil && known(saved):
		s.active = saved
	case err == nil:
		log.Warn("ignoring unrecognized stored locale", zap.String("locale", saved))
	case !errors.Is(err, localstore.ErrNotFound):
		log.Warn("could not restore locale", zap.Error(err))
	}
	return s
}

// Active returns the current locale code.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive switches the locale and persists the choice. Unknown codes are
// rejected; already-loaded entities simply re-resolve, nothing is refetched.
func (s *Store) SetActive(ctx context.Context, locale string) error {
	if !known(locale) {
		return errors.New("i18n: unknown locale " + locale)
	}

	s.mu.Lock()
	s.active = locale
	s.mu.Unlock()

	if err := s.storage.SetJSON(ctx, localstore.KeyLocale, locale); err != nil {
		s.log.Warn("could not persist locale", zap.Error(err))
	}
	if s.Notify != nil {
		s.Notify(locale)
	}
	return nil
}

// Translate looks key up in the active locale's table, then the default
// table, then echoes the key itself. It never returns an empty string for a
// non-empty key, so the UI never renders a blank label.
func (s *Store) Translate(key string) string {
	active := s.Active()
	if table, ok := messages[active]; ok {
		if msg, ok := table[key]; ok && msg != "" {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok && msg != "" {
		return msg
	}
	return key
}

// Resolve picks the active-locale variant of a tri-locale field when it is
// present and non-empty, otherwise the default-locale value.
func (s *Store) Resolve(def, ru, en string) string {
	switch s.Active() {
	case LocaleRu:
		if ru != "" {
			return ru
		}
	case LocaleEn:
		if en != "" {
			return en
		}
	}
	return def
}
