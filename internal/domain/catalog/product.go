// Package catalog contains the product aggregate of the Catalog module.
// Products own their pricing invariants; mutations raise domain events that
// the persistence layer collects and dispatches after a successful save.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// Product is the aggregate root of the Catalog module.
type Product struct {
	shared.AggregateRoot

	id          uuid.UUID
	name        string
	description string
	price       decimal.Decimal
	imageFile   string
	categories  []string

	stockQuantity int
	isAvailable   bool

	isDeleted bool
	deletedAt *time.Time
	deletedBy string
}

// NewProduct creates a product through the factory, validating every field
// and raising the created event. Categories are deduplicated
// case-insensitively.
func NewProduct(name, description string, price decimal.Decimal, imageFile string, categories []string, stockQuantity int) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateImageFile(imageFile); err != nil {
		return nil, err
	}
	if stockQuantity < 0 {
		return nil, ErrNegativeStock
	}

	p := &Product{
		id:            uuid.New(),
		name:          strings.TrimSpace(name),
		description:   strings.TrimSpace(description),
		price:         price,
		imageFile:     strings.TrimSpace(imageFile),
		stockQuantity: stockQuantity,
		isAvailable:   stockQuantity > 0,
	}

	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if err := validateCategory(c); err != nil {
			return nil, err
		}
		if !p.HasCategory(c) {
			p.categories = append(p.categories, c)
		}
	}

	p.AddEvent(ProductCreatedEvent{
		BaseEvent:  shared.NewBaseEvent(),
		ProductID:  p.id,
		Name:       p.name,
		Price:      p.price,
		Categories: p.Categories(),
	})

	return p, nil
}

// RehydrateProduct rebuilds a product from trusted storage, bypassing
// business-rule validation and raising no events.
func RehydrateProduct(
	id uuid.UUID,
	name, description string,
	price decimal.Decimal,
	imageFile string,
	categories []string,
	stockQuantity int,
	isAvailable, isDeleted bool,
	deletedAt *time.Time,
	deletedBy string,
) *Product {
	return &Product{
		id:            id,
		name:          name,
		description:   description,
		price:         price,
		imageFile:     imageFile,
		categories:    append([]string(nil), categories...),
		stockQuantity: stockQuantity,
		isAvailable:   isAvailable,
		isDeleted:     isDeleted,
		deletedAt:     deletedAt,
		deletedBy:     deletedBy,
	}
}

// ID returns the product identifier.
func (p *Product) ID() uuid.UUID { return p.id }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Description returns the product description.
func (p *Product) Description() string { return p.description }

// Price returns the current price.
func (p *Product) Price() decimal.Decimal { return p.price }

// ImageFile returns the image reference.
func (p *Product) ImageFile() string { return p.imageFile }

// Categories returns a copy of the category list.
func (p *Product) Categories() []string {
	return append([]string(nil), p.categories...)
}

// StockQuantity returns the units in stock.
func (p *Product) StockQuantity() int { return p.stockQuantity }

// IsAvailable reports whether the product can be sold (stock > 0 and not deleted).
func (p *Product) IsAvailable() bool { return p.isAvailable }

// IsDeleted reports whether the product is soft-deleted.
func (p *Product) IsDeleted() bool { return p.isDeleted }

// DeletedAt returns when the product was soft-deleted, if it was.
func (p *Product) DeletedAt() *time.Time { return p.deletedAt }

// DeletedBy returns who soft-deleted the product.
func (p *Product) DeletedBy() string { return p.deletedBy }

// UpdatePrice changes the price and raises a price-changed event. Setting
// the same price is a no-op and appends nothing.
func (p *Product) UpdatePrice(newPrice decimal.Decimal, reason string) error {
	if err := validatePrice(newPrice); err != nil {
		return err
	}
	if p.price.Equal(newPrice) {
		return nil
	}

	oldPrice := p.price
	p.price = newPrice

	p.AddEvent(ProductPriceChangedEvent{
		BaseEvent: shared.NewBaseEvent(),
		ProductID: p.id,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		Reason:    reason,
	})

	return nil
}

// ApplyDiscount reduces the price by a percentage, delegating to UpdatePrice.
func (p *Product) ApplyDiscount(percentage decimal.Decimal, reason string) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscountRange
	}

	discount := p.price.Mul(percentage.Div(decimal.NewFromInt(100)))
	return p.UpdatePrice(p.price.Sub(discount), reason)
}

// UpdateStock overwrites the stock quantity; availability is derived from it.
func (p *Product) UpdateStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	p.stockQuantity = quantity
	p.isAvailable = quantity > 0 && !p.isDeleted
	return nil
}

// UpdateName renames the product.
func (p *Product) UpdateName(newName string) error {
	if err := validateName(newName); err != nil {
		return err
	}
	p.name = strings.TrimSpace(newName)
	return nil
}

// UpdateDescription replaces the description.
func (p *Product) UpdateDescription(newDescription string) error {
	if err := validateDescription(newDescription); err != nil {
		return err
	}
	p.description = strings.TrimSpace(newDescription)
	return nil
}

// UpdateImageFile replaces the image reference.
func (p *Product) UpdateImageFile(newImageFile string) error {
	if err := validateImageFile(newImageFile); err != nil {
		return err
	}
	p.imageFile = strings.TrimSpace(newImageFile)
	return nil
}

// HasCategory reports category membership, case-insensitively.
func (p *Product) HasCategory(category string) bool {
	for _, c := range p.categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// AddCategory adds a category if not already present; duplicates are ignored
// without an event.
func (p *Product) AddCategory(category string) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	if p.HasCategory(category) {
		return nil
	}

	old := p.Categories()
	p.categories = append(p.categories, category)

	p.AddEvent(ProductCategoriesUpdatedEvent{
		BaseEvent:     shared.NewBaseEvent(),
		ProductID:     p.id,
		OldCategories: old,
		NewCategories: p.Categories(),
	})

	return nil
}

// AddCategories adds every non-blank category, raising at most one event if
// the set actually changed.
func (p *Product) AddCategories(categories []string) error {
	old := p.Categories()
	changed := false

	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if err := validateCategory(c); err != nil {
			return err
		}
		if !p.HasCategory(c) {
			p.categories = append(p.categories, c)
			changed = true
		}
	}

	if changed {
		p.AddEvent(ProductCategoriesUpdatedEvent{
			BaseEvent:     shared.NewBaseEvent(),
			ProductID:     p.id,
			OldCategories: old,
			NewCategories: p.Categories(),
		})
	}

	return nil
}

// RemoveCategory removes a category; no-op if absent.
func (p *Product) RemoveCategory(category string) {
	if strings.TrimSpace(category) == "" {
		return
	}

	old := p.Categories()
	kept := p.categories[:0]
	for _, c := range p.categories {
		if !strings.EqualFold(c, category) {
			kept = append(kept, c)
		}
	}

	if len(kept) == len(old) {
		return
	}
	p.categories = kept

	p.AddEvent(ProductCategoriesUpdatedEvent{
		BaseEvent:     shared.NewBaseEvent(),
		ProductID:     p.id,
		OldCategories: old,
		NewCategories: p.Categories(),
	})
}

// ClearCategories removes every category; no-op when already empty.
func (p *Product) ClearCategories() {
	if len(p.categories) == 0 {
		return
	}

	old := p.Categories()
	p.categories = nil

	p.AddEvent(ProductCategoriesUpdatedEvent{
		BaseEvent:     shared.NewBaseEvent(),
		ProductID:     p.id,
		OldCategories: old,
		NewCategories: nil,
	})
}

// IsInPriceRange reports whether the price falls within [min, max].
func (p *Product) IsInPriceRange(min, max decimal.Decimal) bool {
	return p.price.GreaterThanOrEqual(min) && p.price.LessThanOrEqual(max)
}

// SoftDelete flags the product as deleted; idempotent. The deletion
// timestamp and actor are stamped by the save interceptor.
func (p *Product) SoftDelete() {
	if p.isDeleted {
		return
	}

	p.isDeleted = true
	p.isAvailable = false

	p.AddEvent(ProductDeletedEvent{
		BaseEvent: shared.NewBaseEvent(),
		ProductID: p.id,
		Name:      p.name,
	})
}

// Restore undoes a soft delete; idempotent.
func (p *Product) Restore() {
	if !p.isDeleted {
		return
	}

	p.isDeleted = false
	p.deletedAt = nil
	p.deletedBy = ""
	p.isAvailable = p.stockQuantity > 0

	p.AddEvent(ProductRestoredEvent{
		BaseEvent: shared.NewBaseEvent(),
		ProductID: p.id,
		Name:      p.name,
	})
}

// MarkDeleted stamps the soft-delete audit fields. Called by the save
// interceptor when a physical removal is converted into a soft delete.
func (p *Product) MarkDeleted(at time.Time, by string) {
	p.isDeleted = true
	p.isAvailable = false
	p.deletedAt = &at
	p.deletedBy = by
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyProductName
	}
	if len(trimmed) > 200 {
		return ErrProductNameTooLong
	}
	return nil
}

func validateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ErrEmptyDescription
	}
	if len(trimmed) > 1000 {
		return ErrDescriptionTooLong
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	return nil
}

func validateImageFile(imageFile string) error {
	if strings.TrimSpace(imageFile) == "" {
		return ErrEmptyImageFile
	}
	return nil
}

func validateCategory(category string) error {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return ErrEmptyCategory
	}
	if len(trimmed) > 100 {
		return ErrCategoryTooLong
	}
	return nil
}
