package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength = 200
	maxImageURLLength    = 1000
)

// Product is a menu item sold through pre-order rounds.
// Order items and stock entries keep a soft reference to it, so deleting a
// product never touches them.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Cost        decimal.Decimal
	Price       decimal.Decimal
	ImageURL    string
	IsActive    bool
}

// ProductDetails holds the editable fields of a product
type ProductDetails struct {
	Name        string
	Description string
	Cost        *decimal.Decimal
	Price       decimal.Decimal
	ImageURL    string
}

// NewProduct creates a new active product. Cost defaults to zero.
func NewProduct(details ProductDetails) (*Product, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
	}
	product.apply(details)

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the product's editable fields
func (p *Product) Update(details ProductDetails) error {
	if err := details.validate(); err != nil {
		return err
	}

	p.apply(details)
	p.Touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ToggleActive flips the active flag
func (p *Product) ToggleActive() {
	p.IsActive = !p.IsActive
	p.Touch()

	p.AddDomainEvent(NewProductStatusChangedEvent(p))
}

// MarkDeleted records the deletion event before the row is removed
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// Margin returns price minus cost
func (p *Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

func (p *Product) apply(details ProductDetails) {
	p.Name = strings.TrimSpace(details.Name)
	p.Description = strings.TrimSpace(details.Description)
	p.Price = details.Price
	p.ImageURL = strings.TrimSpace(details.ImageURL)
	if details.Cost != nil {
		p.Cost = *details.Cost
	} else {
		p.Cost = decimal.Zero
	}
}

func (d ProductDetails) validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("name", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLength {
		return shared.NewValidationError("name", "Product name cannot exceed 200 characters")
	}
	if d.Price.IsNegative() {
		return shared.NewValidationError("price", "Price cannot be negative")
	}
	if d.Cost != nil && d.Cost.IsNegative() {
		return shared.NewValidationError("cost", "Cost cannot be negative")
	}
	if len(d.ImageURL) > maxImageURLLength {
		return shared.NewValidationError("image_url", "Image URL is too long")
	}
	return nil
}
