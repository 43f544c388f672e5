// Package cart holds the shopping-cart demo: an ordered list of images with
// quantities, unrelated to the product/user/order tables.
package cart

import (
	"context"
	"errors"
)

// ErrQuantityOverflow is returned by Add when the merged quantity would not
// fit the stored integer. The cart is left unchanged.
var ErrQuantityOverflow = errors.New("cart quantity would overflow")

type Item struct {
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Store merges additions by image: an existing image has its quantity
// incremented, a new one is appended.
type Store interface {
	Add(ctx context.Context, image string, quantity int) error
	Items(ctx context.Context) ([]Item, error)
}
