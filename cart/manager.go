package cart

import (
	"context"
	"time"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/pkg/activity"
	"github.com/goliatone/go-appstate/rules"
	"github.com/goliatone/go-appstate/storage"
	"github.com/google/uuid"
)

// Manager owns the cart store. All mutations go through its methods; the
// store is never handed out.
type Manager struct {
	store   *appstate.Store[State]
	emitter *activity.Emitter
	policy  *policy
	newID   func() string
}

type policy struct {
	evaluator rules.Evaluator
	expr      string
	logger    rules.RuleLogger
}

// Option configures a Manager.
type Option func(*config)

type config struct {
	adapter      storage.Adapter
	key          string
	emitter      *activity.Emitter
	policy       *policy
	policyLogger rules.RuleLogger
	newID        func() string
}

// WithAdapter overrides the session-scope adapter the cart persists to.
func WithAdapter(adapter storage.Adapter) Option {
	return func(cfg *config) {
		if adapter != nil {
			cfg.adapter = adapter
		}
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.key = key
		}
	}
}

// WithEmitter attaches an activity emitter notified after each mutation.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// WithPolicy gates Add behind a boolean rule evaluated against the current
// cart and the candidate line. A rule that evaluates false rejects the add as
// a no-op; a rule that fails to evaluate is logged and the add proceeds, so a
// broken policy never bricks the cart.
func WithPolicy(evaluator rules.Evaluator, expr string) Option {
	return func(cfg *config) {
		if evaluator == nil || expr == "" {
			return
		}
		cfg.policy = &policy{evaluator: evaluator, expr: expr, logger: nil}
	}
}

// WithPolicyLogger records policy evaluations and failures. It can appear in
// any order relative to WithPolicy.
func WithPolicyLogger(logger rules.RuleLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.policyLogger = logger
		}
	}
}

// WithIDGenerator overrides instance-id generation, used by tests that need
// deterministic ids.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// New constructs a cart manager hydrated from its adapter. With no options
// the cart lives in a fresh session scope.
func New(opts ...Option) *Manager {
	cfg := config{
		key:   storage.KeyCart,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.adapter == nil {
		cfg.adapter = storage.NewMemory()
	}
	if cfg.policy != nil {
		cfg.policy.logger = cfg.policyLogger
	}

	return &Manager{
		store: appstate.New(State{},
			appstate.WithName[State]("cart"),
			appstate.WithStorage[State](cfg.adapter, cfg.key),
		),
		emitter: cfg.emitter,
		policy:  cfg.policy,
		newID:   cfg.newID,
	}
}

// Add merges line into an existing cart line with the same identity,
// incrementing its quantity, or appends a new line with a fresh instance id.
// Lines with a non-positive quantity are ignored. Totals are recomputed and
// the cart persisted before Add returns.
func (m *Manager) Add(line Line) {
	if line.Quantity <= 0 {
		return
	}
	if !m.allow(line) {
		return
	}

	m.store.Update(func(state State) State {
		items := cloneLines(state.Items)
		key := line.Key()
		merged := false
		for i := range items {
			if items[i].Key() == key {
				items[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			line.ID = m.newID()
			line.Options = append([]string(nil), line.Options...)
			items = append(items, line)
		}
		state.Items = items
		return recompute(state)
	})
	m.emit(activity.BuildCartUpdatedEvent)
}

// UpdateQuantity sets the quantity of the line with the given instance id.
// Unknown ids and non-positive quantities leave the cart unchanged; a
// quantity of zero does not remove the line, Remove does.
func (m *Manager) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 || !m.contains(id) {
		return
	}
	m.store.Update(func(state State) State {
		items := cloneLines(state.Items)
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
				break
			}
		}
		state.Items = items
		return recompute(state)
	})
	m.emit(activity.BuildCartUpdatedEvent)
}

// Remove deletes the line with the given instance id; unknown ids are a no-op.
func (m *Manager) Remove(id string) {
	if !m.contains(id) {
		return
	}
	m.store.Update(func(state State) State {
		items := cloneLines(state.Items)
		for i := range items {
			if items[i].ID == id {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
		state.Items = items
		return recompute(state)
	})
	m.emit(activity.BuildCartUpdatedEvent)
}

func (m *Manager) contains(id string) bool {
	for _, line := range m.store.Get().Items {
		if line.ID == id {
			return true
		}
	}
	return false
}

// Clear empties the cart and zeroes both totals.
func (m *Manager) Clear() {
	m.store.Set(State{})
	m.emit(activity.BuildCartClearedEvent)
}

// State returns a snapshot of the whole cart.
func (m *Manager) State() State {
	state := m.store.Get()
	state.Items = cloneLines(state.Items)
	return state
}

// Items returns a snapshot of the cart lines in insertion order.
func (m *Manager) Items() []Line {
	return cloneLines(m.store.Get().Items)
}

// TotalQuantity returns the derived quantity sum.
func (m *Manager) TotalQuantity() int {
	return m.store.Get().TotalQuantity
}

// TotalPrice returns the derived price sum.
func (m *Manager) TotalPrice() float64 {
	return m.store.Get().TotalPrice
}

// Subscribe registers fn for every cart change.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	return m.store.Subscribe(fn)
}

// allow evaluates the configured policy against the current cart and the
// candidate line.
func (m *Manager) allow(line Line) bool {
	if m.policy == nil {
		return true
	}
	state := m.store.Get()
	ctx := rules.RuleContext{
		Snapshot: map[string]any{
			"line_count":     len(state.Items),
			"total_quantity": state.TotalQuantity,
			"total_price":    state.TotalPrice,
		},
		Args: map[string]any{
			"candidate": map[string]any{
				"catalog_id": line.CatalogID,
				"variant":    line.Variant,
				"quantity":   line.Quantity,
				"price":      line.Price,
			},
		},
	}

	start := time.Now()
	decision, err := rules.EvaluateBool(m.policy.evaluator, ctx, m.policy.expr)
	if m.policy.logger != nil {
		m.policy.logger.LogEvaluation(rules.LogEvent{
			Engine:   "policy",
			Expr:     m.policy.expr,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		// A broken policy must not block ordering.
		return true
	}
	return decision
}

func (m *Manager) emit(build func(activity.StateEventInput) activity.Event) {
	if !m.emitter.Enabled() {
		return
	}
	state := m.store.Get()
	_ = m.emitter.Emit(context.Background(), build(activity.StateEventInput{
		ObjectID: "cart",
		Metadata: map[string]any{
			"line_count":     len(state.Items),
			"total_quantity": state.TotalQuantity,
			"total_price":    state.TotalPrice,
		},
	}))
}
