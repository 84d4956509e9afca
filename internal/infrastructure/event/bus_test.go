package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type snapshotEvent struct {
	shared.BaseDomainEvent
	FileName string `json:"file_name"`
}

func newSnapshotEvent(eventType string) *snapshotEvent {
	return &snapshotEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "InventorySnapshot", uuid.New()),
		FileName:        "saldos-2024-11-30.xlsx",
	}
}

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	fail   error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, ev)
	if h.panics {
		panic("handler exploded")
	}
	return h.fail
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	t.Run("delivers to the subscribed type", func(t *testing.T) {
		h := &recordingHandler{types: []string{"inventory.snapshot_uploaded"}}
		bus.Subscribe(h)

		ev := newSnapshotEvent("inventory.snapshot_uploaded")
		require.NoError(t, bus.Publish(context.Background(), ev))

		require.Equal(t, 1, h.count())
		assert.Equal(t, ev, h.seen[0])
		bus.Unsubscribe(h)
	})

	t.Run("delivers several events in one call", func(t *testing.T) {
		h := &recordingHandler{}
		bus.Subscribe(h, "inventory.count_saved")

		require.NoError(t, bus.Publish(context.Background(),
			newSnapshotEvent("inventory.count_saved"),
			newSnapshotEvent("inventory.count_saved")))

		assert.Equal(t, 2, h.count())
		bus.Unsubscribe(h)
	})

	t.Run("other types do not reach the handler", func(t *testing.T) {
		h := &recordingHandler{}
		bus.Subscribe(h, "alert.triggered")

		require.NoError(t, bus.Publish(context.Background(),
			newSnapshotEvent("inventory.snapshot_uploaded")))

		assert.Equal(t, 0, h.count())
		bus.Unsubscribe(h)
	})
}

func TestInMemoryEventBus_CatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	h := &recordingHandler{} // no types means every event
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(),
		newSnapshotEvent("inventory.snapshot_uploaded"),
		newSnapshotEvent("equipment.checked_out")))

	assert.Equal(t, 2, h.count())
}

func TestInMemoryEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	broken := &recordingHandler{fail: errors.New("db down")}
	healthy := &recordingHandler{}
	bus.Subscribe(broken, "inventory.snapshot_uploaded")
	bus.Subscribe(healthy, "inventory.snapshot_uploaded")

	require.NoError(t, bus.Publish(context.Background(),
		newSnapshotEvent("inventory.snapshot_uploaded")))

	assert.Equal(t, 1, broken.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_PanickingHandlerIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	angry := &recordingHandler{panics: true}
	calm := &recordingHandler{}
	bus.Subscribe(angry, "alert.triggered")
	bus.Subscribe(calm, "alert.triggered")

	require.NoError(t, bus.Publish(context.Background(),
		newSnapshotEvent("alert.triggered")))

	assert.Equal(t, 1, calm.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	h := &recordingHandler{}
	bus.Subscribe(h, "inventory.count_saved")

	require.NoError(t, bus.Publish(context.Background(), newSnapshotEvent("inventory.count_saved")))
	require.Equal(t, 1, h.count())

	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newSnapshotEvent("inventory.count_saved")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))

	h := &recordingHandler{}
	bus.Subscribe(h, "inventory.snapshot_uploaded")
	require.NoError(t, bus.Publish(ctx, newSnapshotEvent("inventory.snapshot_uploaded")))
	assert.Equal(t, 1, h.count())

	require.NoError(t, bus.Stop(ctx))
}
