// Package preferences persists the two per-user UI preferences (theme and
// language) behind an explicit store. The store is passed by dependency or
// scoped onto a request context; there is no package-level mutable state.
package preferences

import "context"

const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)

// Preferences are the persisted UI settings for one subject id.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Defaults returns the preference values used before anything is saved.
func Defaults() Preferences {
	return Preferences{Theme: DefaultTheme, Language: DefaultLanguage}
}

// Normalize fills empty fields with defaults.
func (p Preferences) Normalize() Preferences {
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	return p
}

// Store reads and writes preferences per subject id. Load returns defaults,
// not an error, when nothing was saved yet.
type Store interface {
	Load(ctx context.Context, subjectID string) (Preferences, error)
	Save(ctx context.Context, subjectID string, prefs Preferences) error
}

type storeContextKey struct{}

// WithStore scopes a store onto a context for handler chains.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext resolves the scoped store, if any.
func FromContext(ctx context.Context) (Store, bool) {
	store, ok := ctx.Value(storeContextKey{}).(Store)
	return store, ok
}
