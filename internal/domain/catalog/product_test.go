package catalog

import (
	"testing"

	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates active product with zero cost by default", func(t *testing.T) {
		product, err := NewProduct(ProductDetails{
			Name:  "  Durian mooncake ",
			Price: decimal.NewFromInt(159),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, product.ID)
		assert.Equal(t, "Durian mooncake", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromInt(159)))
		assert.True(t, product.Cost.IsZero())
		assert.True(t, product.IsActive)
		assert.Empty(t, product.ImageURL)
	})

	t.Run("keeps explicit cost", func(t *testing.T) {
		cost := decimal.NewFromInt(80)
		product, err := NewProduct(ProductDetails{Name: "Lava bun", Price: decimal.NewFromInt(250), Cost: &cost})
		require.NoError(t, err)
		assert.True(t, product.Cost.Equal(cost))
		assert.True(t, product.Margin().Equal(decimal.NewFromInt(170)))
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(ProductDetails{Name: "Five nuts", Price: decimal.NewFromInt(139)})
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, "Five nuts", event.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(ProductDetails{Name: "   ", Price: decimal.NewFromInt(10)})
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(ProductDetails{Name: "Bun", Price: decimal.NewFromInt(-1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
	})

	t.Run("fails with negative cost", func(t *testing.T) {
		cost := decimal.NewFromInt(-5)
		_, err := NewProduct(ProductDetails{Name: "Bun", Price: decimal.NewFromInt(10), Cost: &cost})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cost cannot be negative")
	})

	t.Run("allows zero price", func(t *testing.T) {
		product, err := NewProduct(ProductDetails{Name: "Sample", Price: decimal.Zero})
		require.NoError(t, err)
		assert.True(t, product.Price.IsZero())
	})
}

func TestProduct_Update(t *testing.T) {
	product, err := NewProduct(ProductDetails{Name: "Old", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	product.ClearDomainEvents()

	cost := decimal.NewFromInt(40)
	err = product.Update(ProductDetails{
		Name:        "New",
		Description: "Fresh batch",
		Price:       decimal.NewFromInt(120),
		Cost:        &cost,
		ImageURL:    "https://cdn.example.com/p.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "New", product.Name)
	assert.Equal(t, "Fresh batch", product.Description)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, product.Cost.Equal(cost))
	assert.Equal(t, "https://cdn.example.com/p.png", product.ImageURL)

	events := product.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductUpdated, events[0].EventType())

	t.Run("rejects invalid update and keeps old values", func(t *testing.T) {
		err := product.Update(ProductDetails{Name: "", Price: decimal.NewFromInt(1)})
		require.Error(t, err)
		assert.Equal(t, "New", product.Name)
	})
}

func TestProduct_ToggleActive(t *testing.T) {
	product, err := NewProduct(ProductDetails{Name: "Toggle", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	product.ClearDomainEvents()

	product.ToggleActive()
	assert.False(t, product.IsActive)

	product.ToggleActive()
	assert.True(t, product.IsActive)

	events := product.GetDomainEvents()
	require.Len(t, events, 2)
	last, ok := events[1].(*ProductStatusChangedEvent)
	require.True(t, ok)
	assert.True(t, last.IsActive)
}
