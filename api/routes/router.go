package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliveryservices/backend/api/controllers"
	"github.com/deliveryservices/backend/api/middleware"
	"github.com/deliveryservices/backend/internal/drivers"
	"github.com/deliveryservices/backend/internal/merchants"
	"github.com/deliveryservices/backend/internal/orders"
	"github.com/deliveryservices/backend/pkg/config"
	"github.com/deliveryservices/backend/pkg/logger"
)

// Pinger reports readiness of a backing dependency.
type Pinger = controllers.Pinger

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP Pinger,
	redisP Pinger,
	registry *prometheus.Registry,
	ordersSvc orders.Service,
	merchantsSvc merchants.Service,
	driversSvc drivers.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ActorContext(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersSvc, logg))
			r.Get("/", controllers.ListOrders(ordersSvc, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersSvc, logg))
			r.Patch("/{orderId}", controllers.UpdateOrder(ordersSvc, logg))
			r.Post("/{orderId}/status", controllers.SetOrderStatus(ordersSvc, logg))
			r.Post("/{orderId}/items", controllers.AddOrderItem(ordersSvc, logg))
			r.Patch("/{orderId}/items/{itemId}", controllers.UpdateOrderItem(ordersSvc, logg))
			r.Delete("/{orderId}/items/{itemId}", controllers.RemoveOrderItem(ordersSvc, logg))
			r.Post("/{orderId}/items/{itemId}/status", controllers.SetOrderItemStatus(ordersSvc, logg))
		})

		r.Route("/merchants", func(r chi.Router) {
			r.Post("/", controllers.CreateMerchant(merchantsSvc, logg))
			r.Get("/", controllers.ListMerchants(merchantsSvc, logg))
			r.Get("/{merchantId}", controllers.MerchantDetail(merchantsSvc, logg))
			r.Patch("/{merchantId}", controllers.UpdateMerchant(merchantsSvc, logg))
			r.Post("/{merchantId}/payouts", controllers.MerchantPayout(merchantsSvc, logg))
			r.Get("/{merchantId}/payouts", controllers.MerchantPayoutHistory(merchantsSvc, logg))
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Post("/", controllers.CreateDriver(driversSvc, logg))
			r.Get("/", controllers.ListDrivers(driversSvc, logg))
			r.Get("/{driverId}", controllers.DriverDetail(driversSvc, logg))
			r.Patch("/{driverId}", controllers.UpdateDriver(driversSvc, logg))
			r.Post("/{driverId}/toggle-active", controllers.ToggleDriverActive(driversSvc, logg))
			r.Post("/{driverId}/salary-payments", controllers.PayDriverSalary(driversSvc, logg))
			r.Get("/{driverId}/salary-payments", controllers.DriverSalaryHistory(driversSvc, logg))
		})
	})

	r.Route("/api/driver/v1", func(r chi.Router) {
		r.Use(middleware.DriverContext(logg))
		r.Get("/deliveries", controllers.DriverDeliveries(ordersSvc, logg))
		r.Get("/deliveries/{orderId}", controllers.DriverDeliveryDetail(ordersSvc, logg))
		r.Post("/deliveries/{orderId}/status", controllers.DriverUpdateDeliveryStatus(ordersSvc, logg))
	})

	return r
}
