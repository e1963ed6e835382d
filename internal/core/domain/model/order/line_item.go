package order

import (
	"errors"
	"fmt"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/pkg/errs"
	"courierhub/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via
// NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem records one product position of an order: the product identity, the
// ordered quantity and the unit price captured at order-placement time.
//
// LineItem is an immutable value object. The captured price never changes even
// if the product's live price does, and items are never mutated after the
// order is created.
type LineItem struct { //nolint:recvcheck //using for validation
	productID   kernel.ProductID
	productName string
	quantity    int
	priceAtTime float64

	guard guard.ConstructorGuard
}

// NewLineItem creates a line item with the price captured at placement time.
// Product id must be valid, quantity positive and the captured price
// non-negative.
func NewLineItem(productID kernel.ProductID, productName string, quantity int, priceAtTime float64) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setProductName(productName),
		item.setQuantity(quantity),
		item.setPriceAtTime(priceAtTime),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate checks that the line item was created via NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the identity of the ordered product.
func (i LineItem) ProductID() kernel.ProductID {
	return i.productID
}

// ProductName returns the product display name captured at placement time.
func (i LineItem) ProductName() string {
	return i.productName
}

// Quantity returns the ordered quantity.
func (i LineItem) Quantity() int {
	return i.quantity
}

// PriceAtTime returns the unit price captured when the order was placed.
func (i LineItem) PriceAtTime() float64 {
	return i.priceAtTime
}

func (i *LineItem) setProductID(productID kernel.ProductID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setProductName(productName string) error {
	// The name may legitimately be empty when the client only sends product
	// ids; reads join the product catalog for display.
	i.productName = productName
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setPriceAtTime(priceAtTime float64) error {
	if priceAtTime < 0 {
		return errs.NewValueIsInvalidErrorWithCause("priceAtTime",
			fmt.Errorf("%f is negative", priceAtTime))
	}
	i.priceAtTime = priceAtTime
	return nil
}
