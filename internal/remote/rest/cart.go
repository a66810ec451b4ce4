package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// TokenSource supplies the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// CartClient performs CRUD against /cart. Mutations require a token and
// fail with ErrUnauthorized before any network call without one.
type CartClient struct {
	c      *Client
	tokens TokenSource
}

// NewCart constructs a CartClient reading the bearer token per call.
func NewCart(c *Client, tokens TokenSource) *CartClient {
	return &CartClient{c: c, tokens: tokens}
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

// List returns the current cart rows. Without a token it returns an empty
// slice: an anonymous visitor has an empty cart, not a broken one.
func (cc *CartClient) List(ctx context.Context) ([]model.CartItem, error) {
	tok, ok := cc.tokens.Token()
	if !ok {
		return []model.CartItem{}, nil
	}
	var items []model.CartItem
	if err := cc.c.do(ctx, "GET", "/cart", tok, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

// Add creates a new row for the product with quantity 1. The response row
// is decoded for shape validation only; callers must List for the
// authoritative post-mutation state.
func (cc *CartClient) Add(ctx context.Context, productID string) error {
	tok, ok := cc.tokens.Token()
	if !ok {
		return fmt.Errorf("%w: login required", errs.ErrUnauthorized)
	}
	var row model.CartItem
	return cc.c.do(ctx, "POST", "/cart", tok, addRequest{ProductID: productID, Quantity: 1}, &row)
}

// Update sets the absolute quantity of an existing row.
func (cc *CartClient) Update(ctx context.Context, cartItemID string, quantity int) error {
	tok, ok := cc.tokens.Token()
	if !ok {
		return fmt.Errorf("%w: login required", errs.ErrUnauthorized)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d", errs.ErrOutOfRange, quantity)
	}
	var row model.CartItem
	return cc.c.do(ctx, "PUT", "/cart/"+url.PathEscape(cartItemID), tok, updateRequest{Quantity: quantity}, &row)
}

// Remove deletes a row by its cart-item ID.
func (cc *CartClient) Remove(ctx context.Context, cartItemID string) error {
	tok, ok := cc.tokens.Token()
	if !ok {
		return fmt.Errorf("%w: login required", errs.ErrUnauthorized)
	}
	return cc.c.do(ctx, "DELETE", "/cart/"+url.PathEscape(cartItemID), tok, nil, nil)
}
