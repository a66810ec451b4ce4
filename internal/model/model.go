// Package model defines domain entities shared by the remote clients and the orchestrator.
package model

import "time"

// Product is a catalog entry. Immutable once fetched; owned by the
// last-fetched page.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"` // relative path, resolved against the service origin
}

// CartItem is a single cart row. The server assigns the ID and embeds a
// read-only product snapshot. Quantity is always >= 1; a cart holds at
// most one row per distinct product ID.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// ProductPage is one page of the catalog. Page is 1-indexed and
// 1 <= Page <= TotalPages holds for any displayed page.
type ProductPage struct {
	Items      []Product
	Page       int
	TotalPages int
}

// Session holds the bearer credential and display name. Token presence is
// the sole signal of "logged in"; ExpiresAt is a best-effort diagnostic
// taken from the token itself and never gates requests.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// LoggedIn reports whether the session carries a token.
func (s Session) LoggedIn() bool { return s.Token != "" }

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient user-facing message. At most one is live at
// a time; a newer one replaces the current one.
type Notification struct {
	Message  string
	Severity Severity
}
