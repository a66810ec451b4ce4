// Package service contains the store controller orchestrating session,
// catalog and cart state against the remote service.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
	"github.com/and161185/shopfront/internal/remote"
)

// DefaultPageSize is the catalog page size when none is configured.
const DefaultPageSize = 6

// SessionStore is the session lifecycle as seen by the controller.
// Implemented by session.Store.
type SessionStore interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
	Register(ctx context.Context, username, password string) (model.Session, error)
	Logout() error
	Current() (model.Session, bool)
}

// Notifier receives transient user-facing messages. Implemented by
// notify.Channel.
type Notifier interface {
	Post(message string, severity model.Severity)
}

// StoreController owns the client-side UI state and sequences calls to
// the remote clients. Remote calls happen outside the state lock; state
// is replaced wholesale from server answers, never from local deltas.
type StoreController struct {
	catalog  remote.Catalog
	cart     remote.Cart
	sessions SessionStore
	notify   Notifier
	log      *zap.Logger
	pageSize int

	mu        sync.Mutex
	session   model.Session
	page      model.ProductPage
	items     []model.CartItem
	loginOpen bool
	loginErr  string
	fetchSeq  uint64 // monotonic guard against stale catalog responses
}

// NewStoreController wires the controller. pageSize <= 0 selects
// DefaultPageSize; a nil logger defaults to a nop.
func NewStoreController(catalog remote.Catalog, cart remote.Cart, sessions SessionStore, notify Notifier, pageSize int, log *zap.Logger) *StoreController {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreController{
		catalog:  catalog,
		cart:     cart,
		sessions: sessions,
		notify:   notify,
		log:      log,
		pageSize: pageSize,
		page:     model.ProductPage{Items: []model.Product{}, Page: 1, TotalPages: 1},
	}
}

// Startup restores a persisted session, loads the first catalog page and
// the cart. Fetch failures surface as notifications, not errors: the
// storefront comes up with whatever state it could get.
func (c *StoreController) Startup(ctx context.Context) {
	if s, ok := c.sessions.Current(); ok {
		c.mu.Lock()
		c.session = s
		c.mu.Unlock()
		c.notify.Post(fmt.Sprintf("Welcome back, %s", s.Username), model.SeveritySuccess)
	}
	_ = c.refreshCatalog(ctx, 1)
	_ = c.refreshCart(ctx)
}

// ChangePage validates n against [1, totalPages] and replaces the
// displayed page with the server's answer. Out-of-range requests are
// rejected before dispatch and leave state unchanged.
func (c *StoreController) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	total := c.page.TotalPages
	c.mu.Unlock()
	if total < 1 {
		total = 1
	}
	if n < 1 || n > total {
		return fmt.Errorf("%w: page %d of %d", errs.ErrOutOfRange, n, total)
	}
	return c.refreshCatalog(ctx, n)
}

// refreshCatalog fetches page n and applies it unless a newer fetch was
// requested while this one was in flight.
func (c *StoreController) refreshCatalog(ctx context.Context, n int) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	p, err := c.catalog.FetchPage(ctx, n, c.pageSize)
	if err != nil {
		c.log.Warn("fetch catalog page", zap.Int("page", n), zap.Error(err))
		c.notify.Post("Could not load products", model.SeverityError)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetchSeq {
		c.log.Debug("discarding stale catalog response", zap.Int("page", n))
		return nil
	}
	c.page = p
	return nil
}

// AddToCart is gated on an active session: without one it opens the login
// prompt and never reaches the cart client. Authenticated adds follow the
// merge policy - a cart never holds two rows for the same product - and
// then replace cart state from a fresh List.
func (c *StoreController) AddToCart(ctx context.Context, productID string) error {
	c.mu.Lock()
	if !c.session.LoggedIn() {
		c.loginOpen = true
		c.mu.Unlock()
		c.notify.Post("Please sign in to add items to your cart", model.SeverityError)
		return errs.ErrUnauthorized
	}
	// O(n) scan over the nested product IDs; carts stay small.
	var existing *model.CartItem
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			row := c.items[i]
			existing = &row
			break
		}
	}
	c.mu.Unlock()

	var err error
	if existing != nil {
		err = c.cart.Update(ctx, existing.ID, existing.Quantity+1)
	} else {
		err = c.cart.Add(ctx, productID)
	}
	if err != nil {
		c.log.Warn("add to cart", zap.String("product", productID), zap.Error(err))
		c.notify.Post("Could not add item to cart", model.SeverityError)
		return err
	}

	if err := c.refreshCart(ctx); err != nil {
		return err
	}
	c.notify.Post("Item added to cart", model.SeveritySuccess)
	return nil
}

// RemoveFromCart deletes a row by cart-item ID, then replaces cart state
// from a fresh List.
func (c *StoreController) RemoveFromCart(ctx context.Context, cartItemID string) error {
	if err := c.cart.Remove(ctx, cartItemID); err != nil {
		c.log.Warn("remove from cart", zap.String("item", cartItemID), zap.Error(err))
		c.notify.Post("Could not remove item from cart", model.SeverityError)
		return err
	}
	if err := c.refreshCart(ctx); err != nil {
		return err
	}
	c.notify.Post("Item removed from cart", model.SeveritySuccess)
	return nil
}

// SetQuantity sets the absolute quantity of a row, then replaces cart
// state from a fresh List. Quantities below 1 are rejected; removal is a
// separate operation.
func (c *StoreController) SetQuantity(ctx context.Context, cartItemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d", errs.ErrOutOfRange, quantity)
	}
	if err := c.cart.Update(ctx, cartItemID, quantity); err != nil {
		c.log.Warn("update cart item", zap.String("item", cartItemID), zap.Error(err))
		c.notify.Post("Could not update cart", model.SeverityError)
		return err
	}
	if err := c.refreshCart(ctx); err != nil {
		return err
	}
	c.notify.Post("Cart updated", model.SeveritySuccess)
	return nil
}

// refreshCart replaces local cart state with the server's answer.
func (c *StoreController) refreshCart(ctx context.Context) error {
	items, err := c.cart.List(ctx)
	if err != nil {
		c.log.Warn("fetch cart", zap.Error(err))
		c.notify.Post("Could not load cart", model.SeverityError)
		return err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Login authenticates and, on success, closes the login prompt and
// refetches the cart. Failures stay inline on the prompt so the user can
// correct and retry without losing context.
func (c *StoreController) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, c.sessions.Login, username, password, "Welcome, %s")
}

// Register creates an account; otherwise identical to Login.
func (c *StoreController) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, c.sessions.Register, username, password, "Welcome, %s")
}

func (c *StoreController) authenticate(ctx context.Context, fn func(context.Context, string, string) (model.Session, error), username, password, welcome string) error {
	s, err := fn(ctx, username, password)
	if err != nil {
		c.log.Info("authentication failed", zap.String("username", username), zap.Error(err))
		c.mu.Lock()
		c.loginErr = userMessage(err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.session = s
	c.loginOpen = false
	c.loginErr = ""
	c.mu.Unlock()

	_ = c.refreshCart(ctx)
	c.notify.Post(fmt.Sprintf(welcome, s.Username), model.SeveritySuccess)
	return nil
}

// Logout clears the persisted session and local cart state.
func (c *StoreController) Logout() {
	if err := c.sessions.Logout(); err != nil {
		c.log.Warn("logout", zap.Error(err))
	}
	c.mu.Lock()
	c.session = model.Session{}
	c.items = nil
	c.mu.Unlock()
	c.notify.Post("Signed out", model.SeveritySuccess)
}

// OpenLogin makes the login prompt visible.
func (c *StoreController) OpenLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginOpen = true
}

// CloseLogin hides the login prompt and drops any inline error.
func (c *StoreController) CloseLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginOpen = false
	c.loginErr = ""
}

// Session returns the active session, if any.
func (c *StoreController) Session() (model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.session.LoggedIn()
}

// Page returns the displayed catalog page.
func (c *StoreController) Page() model.ProductPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.page
	p.Items = append([]model.Product(nil), c.page.Items...)
	return p
}

// Cart returns the displayed cart rows.
func (c *StoreController) Cart() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CartItem(nil), c.items...)
}

// LoginPromptOpen reports login prompt visibility.
func (c *StoreController) LoginPromptOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginOpen
}

// LoginError returns the inline error shown on the login prompt.
func (c *StoreController) LoginError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginErr
}

// Total sums price*quantity over the cart with fixed two-decimal
// precision; "0.00" for an empty cart.
func (c *StoreController) Total() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, it := range c.items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return fmt.Sprintf("%.2f", total)
}

// userMessage strips sentinel prefixes so the login prompt shows the
// server's message verbatim where one exists.
func userMessage(err error) string {
	for _, s := range []error{errs.ErrValidation, errs.ErrUnauthorized, errs.ErrNetwork} {
		if msg, ok := strings.CutPrefix(err.Error(), s.Error()+": "); ok {
			return msg
		}
	}
	return err.Error()
}
