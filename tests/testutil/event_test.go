package testutil

import (
	"context"
	"testing"

	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventRecorder_KeepsSubscribedEventsInOrder(t *testing.T) {
	bus := event.NewInMemoryEventBus(zap.NewNop())
	recorder := NewEventRecorder("OrderCreated", "OrderShipped")
	bus.Subscribe(recorder)

	created := shared.NewBaseDomainEvent("OrderCreated", "Order", NewTestUUID("order"))
	updated := shared.NewBaseDomainEvent("OrderUpdated", "Order", NewTestUUID("order"))
	shipped := shared.NewBaseDomainEvent("OrderShipped", "Order", NewTestUUID("order"))
	require.NoError(t, bus.Publish(context.Background(), &created, &updated, &shipped))

	assert.Equal(t, []string{"OrderCreated", "OrderShipped"}, recorder.HandledTypes())
}

func TestEventRecorder_Empty(t *testing.T) {
	recorder := NewEventRecorder()

	assert.Empty(t, recorder.EventTypes())
	assert.Empty(t, recorder.HandledTypes())
}
