// Package session owns the authenticated user singleton and the bearer
// tokens kept in durable storage. Logout resets the user to empty defaults
// and removes the tokens; cart and guest data deliberately survive it.
package session

import (
	"context"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/pkg/activity"
	"github.com/goliatone/go-appstate/storage"
)

// User is the authenticated identity.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	BusinessID  string   `json:"business_id"`
	Groups      []string `json:"groups"`
}

// Tokens is the bearer token pair persisted to the durable scope.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager owns the session store and the durable token keys.
type Manager struct {
	store   *appstate.Store[User]
	durable storage.Adapter
	emitter *activity.Emitter
}

// Option configures a Manager.
type Option func(*config)

type config struct {
	durable storage.Adapter
	emitter *activity.Emitter
}

// WithDurable overrides the durable-scope adapter holding the tokens.
func WithDurable(adapter storage.Adapter) Option {
	return func(cfg *config) {
		if adapter != nil {
			cfg.durable = adapter
		}
	}
}

// WithEmitter attaches an activity emitter.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// New constructs a session manager. The user lives in memory only; tokens go
// through the durable adapter.
func New(opts ...Option) *Manager {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.durable == nil {
		cfg.durable = storage.NewMemory()
	}

	return &Manager{
		store:   appstate.New(User{}, appstate.WithName[User]("session")),
		durable: cfg.durable,
		emitter: cfg.emitter,
	}
}

// Set installs the authenticated user.
func (m *Manager) Set(user User) {
	m.store.Set(user)
	m.emit(activity.BuildSessionUpdatedEvent, user)
}

// Current returns a snapshot of the authenticated user.
func (m *Manager) Current() User {
	return m.store.Get()
}

// HasPermission reports whether the current user holds permission.
func (m *Manager) HasPermission(permission string) bool {
	for _, granted := range m.store.Get().Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}

// SetTokens writes the bearer token pair to durable storage.
func (m *Manager) SetTokens(tokens Tokens) {
	m.durable.Save(storage.KeyToken, tokens.Access)
	m.durable.Save(storage.KeyRefreshToken, tokens.Refresh)
}

// Tokens reads the bearer token pair; missing tokens come back empty.
func (m *Manager) Tokens() Tokens {
	var tokens Tokens
	m.durable.Load(storage.KeyToken, &tokens.Access)
	m.durable.Load(storage.KeyRefreshToken, &tokens.Refresh)
	return tokens
}

// Reset clears the session on logout: user and permissions back to empty
// defaults, tokens removed from durable storage. Cart and guest state are
// not touched — they persist independently until explicitly cleared.
func (m *Manager) Reset() {
	user := m.store.Get()
	m.store.Set(User{})
	m.durable.Remove(storage.KeyToken)
	m.durable.Remove(storage.KeyRefreshToken)
	m.emit(activity.BuildSessionClearedEvent, user)
}

// Subscribe registers fn for session changes.
func (m *Manager) Subscribe(fn func(User)) (cancel func()) {
	return m.store.Subscribe(fn)
}

func (m *Manager) emit(build func(activity.StateEventInput) activity.Event, user User) {
	if !m.emitter.Enabled() {
		return
	}
	_ = m.emitter.Emit(context.Background(), build(activity.StateEventInput{
		ActorID:    user.ID,
		BusinessID: user.BusinessID,
		ObjectID:   "session",
		Metadata: map[string]any{
			"role": user.Role,
		},
	}))
}
