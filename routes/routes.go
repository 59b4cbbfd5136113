package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/services/cart"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
	"github.com/junaidrashid-git/storefront-api/services/purchase"
	"github.com/junaidrashid-git/storefront-api/services/report"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Tokens            *auth.Tokens
	Catalog           *catalog.Service
	Carts             *cart.Service
	Ledger            *inventory.Ledger
	Recorder          *purchase.Recorder
	Reports           *report.Service
	Hub               *notify.Hub
	LowStockThreshold int
}

// SetupRoutes is the single entry-point that wires every route group under
// /api/v1.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api/v1")

	// Public
	SetupAuthRoutes(api, d)
	SetupUserRoutes(api, d)

	// JWT-protected
	SetupProductRoutes(api, d)
	SetupStockRoutes(api, d)
	SetupCartRoutes(api, d)
	SetupPurchaseRoutes(api, d)
}
