package app

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
	"github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"
)

const defaultSubscriberBuffer = 8

// Workspace mutation names, used for metrics and logs.
const (
	OpAddItem         = "add_item"
	OpUpdateItemField = "update_item_field"
	OpRemoveItem      = "remove_item"
	OpClearItems      = "clear_items"
	OpImportItems     = "import_items"
	OpUpdateSettings  = "update_settings"
)

// Workspace owns the single working document shared by the form, the preview
// and every export. All access is serialised.
type Workspace struct {
	mu          sync.Mutex
	doc         domain.Document
	subscribers map[string]chan View

	buffer  int
	now     func() time.Time
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// WorkspaceConfig configures a Workspace.
type WorkspaceConfig struct {
	// Settings are the initial document settings.
	Settings domain.DocumentSettings

	// SeedSampleItems starts the document with the sample rows.
	SeedSampleItems bool

	// SubscriberBuffer is the number of views queued per subscriber.
	SubscriberBuffer int

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	Logger  *slog.Logger
	Metrics *telemetry.BusinessMetrics
}

// NewWorkspace creates a workspace holding a single document.
func NewWorkspace(cfg WorkspaceConfig) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	buffer := cfg.SubscriberBuffer
	if buffer < 1 {
		buffer = defaultSubscriberBuffer
	}

	items := []domain.LineItem{}
	if cfg.SeedSampleItems {
		items = domain.SampleItems()
	}

	return &Workspace{
		doc:         domain.Document{Settings: cfg.Settings, Items: items},
		subscribers: make(map[string]chan View),
		buffer:      buffer,
		now:         clock,
		logger:      logger.With(slog.String("component", "app.Workspace")),
		metrics:     cfg.Metrics,
	}
}

// Snapshot returns a copy of the current document.
func (w *Workspace) Snapshot() domain.Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.snapshotLocked()
}

// View renders the current document.
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Render(w.snapshotLocked(), w.now())
}

// AddItem appends a default row.
func (w *Workspace) AddItem(ctx context.Context) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.doc.Items = append(w.doc.Items, domain.NewLineItem())

	return w.commitLocked(ctx, OpAddItem, slog.Int("items", len(w.doc.Items)))
}

// UpdateItemField applies raw input to one field of the row at index.
func (w *Workspace) UpdateItemField(ctx context.Context, index int, field, raw string) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIndexLocked(index); err != nil {
		return View{}, err
	}

	item := w.doc.Items[index]
	if err := item.SetField(field, raw); err != nil {
		return View{}, err
	}

	w.doc.Items[index] = item

	return w.commitLocked(ctx, OpUpdateItemField,
		slog.Int("index", index),
		slog.String("field", field),
	), nil
}

// RemoveItem deletes the row at index. Later rows shift down by one.
func (w *Workspace) RemoveItem(ctx context.Context, index int) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIndexLocked(index); err != nil {
		return View{}, err
	}

	w.doc.Items = append(w.doc.Items[:index], w.doc.Items[index+1:]...)

	return w.commitLocked(ctx, OpRemoveItem, slog.Int("index", index)), nil
}

// ClearItems removes every row.
func (w *Workspace) ClearItems(ctx context.Context) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.doc.Items = []domain.LineItem{}

	return w.commitLocked(ctx, OpClearItems)
}

// ImportItems replaces all rows with items. An empty import leaves the
// document unchanged and reports false.
func (w *Workspace) ImportItems(ctx context.Context, items []domain.LineItem) (View, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(items) == 0 {
		logging.FromContextOr(ctx, w.logger).DebugContext(ctx, "import produced no items, keeping current rows")
		return Render(w.snapshotLocked(), w.now()), false
	}

	w.doc.Items = domain.CloneItems(items)

	return w.commitLocked(ctx, OpImportItems, slog.Int("items", len(items))), true
}

// UpdateSettings replaces the document settings, keeping the rows.
func (w *Workspace) UpdateSettings(ctx context.Context, settings domain.DocumentSettings) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.doc.Settings = settings

	return w.commitLocked(ctx, OpUpdateSettings)
}

// Subscription delivers a fresh View after every change.
// A slow reader misses intermediate views but always receives the latest.
type Subscription struct {
	ID    string
	Views <-chan View

	ws *Workspace
}

// Close stops delivery and closes Views. It is safe to call more than once.
func (s *Subscription) Close() {
	s.ws.unsubscribe(s.ID)
}

// Subscribe registers a subscriber. The current view is queued immediately.
func (w *Workspace) Subscribe() *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan View, w.buffer)
	ch <- Render(w.snapshotLocked(), w.now())
	w.subscribers[id] = ch

	w.logger.Debug("subscriber added",
		slog.String("subscriber_id", id),
		slog.Int("subscribers", len(w.subscribers)),
	)

	return &Subscription{ID: id, Views: ch, ws: w}
}

// Subscribers returns the number of active subscribers.
func (w *Workspace) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.subscribers)
}

func (w *Workspace) unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.subscribers[id]
	if !ok {
		return
	}

	delete(w.subscribers, id)
	close(ch)

	w.logger.Debug("subscriber removed",
		slog.String("subscriber_id", id),
		slog.Int("subscribers", len(w.subscribers)),
	)
}

func (w *Workspace) checkIndexLocked(index int) error {
	if index < 0 || index >= len(w.doc.Items) {
		return domain.NewNotFoundError("line item", strconv.Itoa(index))
	}

	return nil
}

func (w *Workspace) snapshotLocked() domain.Document {
	return domain.Document{
		Settings: w.doc.Settings,
		Items:    domain.CloneItems(w.doc.Items),
	}
}

// commitLocked renders the new state, records the mutation and fans the view out.
func (w *Workspace) commitLocked(ctx context.Context, op string, attrs ...any) View {
	view := Render(w.snapshotLocked(), w.now())

	w.metrics.WorkspaceMutation(op)
	logging.FromContextOr(ctx, w.logger).DebugContext(ctx, "workspace changed",
		append([]any{slog.String("operation", op)}, attrs...)...)

	for _, ch := range w.subscribers {
		publish(ch, view)
	}

	return view
}

// publish never blocks: when the buffer is full the oldest queued view is dropped.
func publish(ch chan View, view View) {
	for {
		select {
		case ch <- view:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
