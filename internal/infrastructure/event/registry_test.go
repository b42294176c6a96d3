package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	r := NewHandlerRegistry()
	h := newRecordingHandler()

	r.Register(h, "OrderCreated", "OrderUpdated")

	assert.Len(t, r.GetHandlers("OrderCreated"), 1)
	assert.Len(t, r.GetHandlers("OrderUpdated"), 1)
	assert.Empty(t, r.GetHandlers("OrderDeleted"))
}

func TestHandlerRegistry_RegisterTwiceIsNoop(t *testing.T) {
	r := NewHandlerRegistry()
	h := newRecordingHandler()

	r.Register(h, "OrderCreated")
	r.Register(h, "OrderCreated")
	r.Register(h)
	r.Register(h)

	assert.Len(t, r.GetHandlers("OrderCreated"), 2)
	assert.Len(t, r.GetAllHandlers(), 1)
}

func TestHandlerRegistry_WildcardFollowsTyped(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newRecordingHandler()
	all := newRecordingHandler()

	r.Register(all)
	r.Register(typed, "StockRecorded")

	handlers := r.GetHandlers("StockRecorded")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, all, handlers[1])
	assert.Len(t, r.GetHandlers("ProductCreated"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	a := newRecordingHandler()
	b := newRecordingHandler()

	r.Register(a, "OrderCreated", "OrderDeleted")
	r.Register(b, "OrderCreated")
	r.Register(a)

	r.Unregister(a)

	assert.Len(t, r.GetHandlers("OrderCreated"), 1)
	assert.Empty(t, r.GetHandlers("OrderDeleted"))
	assert.Len(t, r.GetAllHandlers(), 1)
	_, stillIndexed := r.byType["OrderDeleted"]
	assert.False(t, stillIndexed)
}
