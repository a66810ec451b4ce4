// Command shop is a CLI client for the storefront service.
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/notify"
	"github.com/and161185/shopfront/internal/remote/rest"
	"github.com/and161185/shopfront/internal/service"
	"github.com/and161185/shopfront/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app bundles the wired components for one CLI invocation.
type app struct {
	ctrl     *service.StoreController
	store    *session.Store
	messages *notify.Channel
	origin   string
}

// newApp wires the REST clients, session store and controller.
func newApp(addr string, insecure bool, log *zap.Logger) (*app, error) {
	httpc := &http.Client{Timeout: 30 * time.Second}
	if insecure {
		httpc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	origin := strings.TrimSuffix(addr, "/")
	cl, err := rest.New(rest.Config{BaseURL: origin + "/api", HTTPClient: httpc, Logger: log})
	if err != nil {
		return nil, err
	}

	store := session.NewStore(rest.NewAuth(cl), session.NewFileKV(""), log)
	messages := notify.New(0)
	ctrl := service.NewStoreController(rest.NewCatalog(cl), rest.NewCart(cl, store), store, messages, 0, log)

	return &app{ctrl: ctrl, store: store, messages: messages, origin: origin}, nil
}

// resolveImage turns a relative image path into an absolute URL.
func (a *app) resolveImage(p string) string {
	if p == "" || strings.Contains(p, "://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return a.origin + p
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// flush prints the last notification, if one is live.
func (a *app) flush() {
	if n, ok := a.messages.Current(); ok {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Severity, n.Message)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `shop CLI
Usage:
  shop -addr URL [-insecure] [-v] <cmd> [args]

Commands:
  version
  register   -u <username> -p <password>
  login      -u <username> -p <password>          (saves session)
  logout
  whoami
  products   [-page N]
  cart
  cart-add   -product <id>
  cart-rm    -id <cartItemId>
  cart-set   -id <cartItemId> -qty <n>
`)
	os.Exit(2)
}

// main dispatches subcommands against a freshly wired controller.
func main() {
	addr := flag.String("addr", "https://localhost:7279", "service base URL")
	insecure := flag.Bool("insecure", false, "skip cert verify (dev)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := newApp(*addr, *insecure, log)
	if err != nil {
		fail(err)
	}

	switch cmd {

	case "version":
		fmt.Printf("shop %s (%s)\n", version, buildDate)

	case "register", "login":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}

		do := a.ctrl.Login
		if cmd == "register" {
			do = a.ctrl.Register
		}
		if err := do(ctx, *u, *p); err != nil {
			// the prompt-inline message carries the server's wording
			fmt.Fprintln(os.Stderr, a.ctrl.LoginError())
			os.Exit(1)
		}
		a.flush()

	case "logout":
		a.ctrl.Logout()
		a.flush()

	case "whoami":
		s, ok := a.store.Current()
		if !ok {
			fmt.Fprintln(os.Stderr, "not logged in")
			os.Exit(1)
		}
		out := map[string]any{"username": s.Username}
		if !s.ExpiresAt.IsZero() {
			out["token_expires_at"] = s.ExpiresAt.UTC().Format(time.RFC3339)
		}
		printJSON(out)

	case "products":
		fs := flag.NewFlagSet("products", flag.ExitOnError)
		page := fs.Int("page", 1, "page number (1-indexed)")
		_ = fs.Parse(flag.Args()[1:])

		a.ctrl.Startup(ctx)
		if *page != 1 {
			if err := a.ctrl.ChangePage(ctx, *page); err != nil {
				fail(err)
			}
		}

		p := a.ctrl.Page()
		type row struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Price       string  `json:"price"`
			Image       string  `json:"image"`
		}
		rows := make([]row, 0, len(p.Items))
		for _, pr := range p.Items {
			rows = append(rows, row{
				ID:          pr.ID,
				Name:        pr.Name,
				Description: pr.Description,
				Price:       fmt.Sprintf("%.2f", pr.Price),
				Image:       a.resolveImage(pr.ImageURL),
			})
		}
		printJSON(map[string]any{"page": p.Page, "totalPages": p.TotalPages, "items": rows})

	case "cart":
		a.ctrl.Startup(ctx)
		a.printCart()

	case "cart-add":
		fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
		product := fs.String("product", "", "product id")
		_ = fs.Parse(flag.Args()[1:])
		if *product == "" {
			fmt.Fprintln(os.Stderr, "need -product")
			os.Exit(1)
		}

		a.ctrl.Startup(ctx)
		if err := a.ctrl.AddToCart(ctx, *product); err != nil {
			a.flush()
			os.Exit(1)
		}
		a.flush()
		a.printCart()

	case "cart-rm":
		fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
		id := fs.String("id", "", "cart item id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		a.ctrl.Startup(ctx)
		if err := a.ctrl.RemoveFromCart(ctx, *id); err != nil {
			a.flush()
			os.Exit(1)
		}
		a.flush()
		a.printCart()

	case "cart-set":
		fs := flag.NewFlagSet("cart-set", flag.ExitOnError)
		id := fs.String("id", "", "cart item id")
		qty := fs.Int("qty", 0, "absolute quantity (>= 1)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || *qty < 1 {
			fmt.Fprintln(os.Stderr, "need -id and -qty >= 1")
			os.Exit(1)
		}

		a.ctrl.Startup(ctx)
		if err := a.ctrl.SetQuantity(ctx, *id, *qty); err != nil {
			a.flush()
			os.Exit(1)
		}
		a.flush()
		a.printCart()

	default:
		usage()
	}
}

// printCart renders the cart rows and the running total.
func (a *app) printCart() {
	type row struct {
		ID       string `json:"id"`
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
		Subtotal string `json:"subtotal"`
	}
	items := a.ctrl.Cart()
	rows := make([]row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row{
			ID:       it.ID,
			Product:  it.Product.Name,
			Quantity: it.Quantity,
			Subtotal: fmt.Sprintf("%.2f", it.Product.Price*float64(it.Quantity)),
		})
	}
	printJSON(map[string]any{"items": rows, "total": a.ctrl.Total()})
}
