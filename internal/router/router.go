package router

import (
	"net/http"
	"strings"

	"mishki-store/internal/handler"
	"mishki-store/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the handlers the router wires up.
type Handlers struct {
	Product    *handler.ProductHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Invoice    *handler.InvoiceHandler
	Newsletter *handler.NewsletterHandler
	Seed       *handler.SeedHandler
	PayPal     *handler.PayPalHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			h.Product.GetByID(w, r)
			return
		}
		h.Product.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart routes. The owner comes from the X-Cart-Owner header.
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/":
			switch r.Method {
			case http.MethodGet:
				h.Cart.Get(w, r)
			case http.MethodDelete:
				h.Cart.Clear(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		case r.URL.Path == "/api/cart/merge":
			h.Cart.Merge(w, r)
		case r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/":
			if r.Method == http.MethodPost {
				h.Cart.AddItem(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		case strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			switch r.Method {
			case http.MethodPut:
				h.Cart.UpdateItem(w, r)
			case http.MethodDelete:
				h.Cart.RemoveItem(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			h.Order.Create(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/invoice") {
				h.Order.Invoice(w, r)
				return
			}
			h.Order.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/quick-order/validate", h.Order.ValidateQuickOrder)
	mux.HandleFunc("/api/invoice-email", h.Invoice.Email)
	mux.HandleFunc("/api/newsletter", h.Newsletter.Subscribe)
	mux.HandleFunc("/api/seed", h.Seed.Run)
	mux.HandleFunc("/api/paypal/config", h.PayPal.Config)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var root http.Handler = mux
	root = middleware.APIKeyAuth(apiKey, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
