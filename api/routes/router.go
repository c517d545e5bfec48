package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zubairqazi/bazaarline-backend/api/controllers"
	"github.com/zubairqazi/bazaarline-backend/api/middleware"
	"github.com/zubairqazi/bazaarline-backend/internal/cart"
	"github.com/zubairqazi/bazaarline-backend/internal/orders"
	"github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/internal/withdrawals"
	"github.com/zubairqazi/bazaarline-backend/pkg/config"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	cartService cart.Service,
	ordersService orders.Service,
	walletsService wallets.Service,
	withdrawService withdrawals.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(cartService, logg))
			r.Post("/items", controllers.CartApplyDelta(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Post("/", controllers.OrderCreate(ordersService, logg))
			r.Post("/checkout", controllers.OrderCheckout(ordersService, logg))
			r.Get("/track/{orderNumber}", controllers.OrderTrack(ordersService, logg))
			r.Get("/{orderID}", controllers.OrderGet(ordersService, logg))
			r.Post("/{orderID}/status", controllers.OrderTransition(ordersService, logg))
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", controllers.WithdrawList(withdrawService, logg))
			r.Post("/", controllers.WithdrawRequest(withdrawService, logg))
			r.Get("/{withdrawalID}", controllers.WithdrawGet(withdrawService, logg))
			r.Post("/{withdrawalID}/resolve", controllers.WithdrawResolve(withdrawService, logg))
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/admin/totals", controllers.AdminWalletTotals(walletsService, logg))
			r.Get("/sellers/{vendorID}", controllers.SellerWalletGet(walletsService, logg))
		})
	})

	return r
}
