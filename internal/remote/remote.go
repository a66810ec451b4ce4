// Package remote defines client interfaces for the storefront REST service,
// implemented by concrete backends.
package remote

import (
	"context"

	"github.com/and161185/shopfront/internal/model"
)

// Auth performs credential exchange against the remote auth endpoints.
type Auth interface {
	// Login submits credentials and returns a session carrying the
	// bearer token. A success response without a token is an error.
	Login(ctx context.Context, username, password string) (model.Session, error)
	// Register creates an account and returns a session the same way.
	Register(ctx context.Context, username, password string) (model.Session, error)
}

// Catalog fetches pages of the product catalog.
type Catalog interface {
	// FetchPage returns the server's authoritative item list and total
	// page count for the given page size. All-or-nothing: no partial
	// results on failure.
	FetchPage(ctx context.Context, page, pageSize int) (model.ProductPage, error)
}

// Cart performs CRUD against the server-resident cart resource. Mutations
// require a present session and fail before any network call without one.
// None of the mutations return authoritative post-mutation cart state;
// callers must List again instead of trusting local deltas.
type Cart interface {
	// List returns the current cart rows. Without a session it returns
	// an empty slice, not an error.
	List(ctx context.Context) ([]model.CartItem, error)
	// Add creates a new row for the product with quantity 1.
	Add(ctx context.Context, productID string) error
	// Update sets the absolute quantity of an existing row.
	Update(ctx context.Context, cartItemID string, quantity int) error
	// Remove deletes a row by its cart-item ID (not product ID).
	Remove(ctx context.Context, cartItemID string) error
}
