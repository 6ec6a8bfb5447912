package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getclientflow/clientflow-backend/api/controllers"
	"github.com/getclientflow/clientflow-backend/api/middleware"
	"github.com/getclientflow/clientflow-backend/internal/auth"
	"github.com/getclientflow/clientflow-backend/internal/bookings"
	"github.com/getclientflow/clientflow-backend/internal/clients"
	"github.com/getclientflow/clientflow-backend/internal/invoices"
	"github.com/getclientflow/clientflow-backend/internal/payments"
	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/config"
	"github.com/getclientflow/clientflow-backend/pkg/db"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/getclientflow/clientflow-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth     auth.Service
	Clients  clients.Service
	Bookings bookings.Service
	Invoices invoices.Service
	Payments payments.Service
	Webhooks webhooks.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", controllers.CreateClient(svcs.Clients, logg))
			r.Get("/", controllers.ListClients(svcs.Clients, logg))
			r.Get("/{clientID}", controllers.GetClient(svcs.Clients, logg))
			r.Patch("/{clientID}", controllers.UpdateClient(svcs.Clients, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(svcs.Bookings, logg))
			r.Get("/", controllers.ListBookings(svcs.Bookings, logg))
			r.Get("/{bookingID}", controllers.GetBooking(svcs.Bookings, logg))
			r.Post("/{bookingID}/confirm", controllers.ConfirmBooking(svcs.Bookings, logg))
			r.Post("/{bookingID}/cancel", controllers.CancelBooking(svcs.Bookings, logg))
			r.Post("/{bookingID}/complete", controllers.CompleteBooking(svcs.Bookings, logg))
			r.Post("/{bookingID}/reschedule", controllers.RescheduleBooking(svcs.Bookings, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", controllers.CreateInvoice(svcs.Invoices, logg))
			r.Get("/", controllers.ListInvoices(svcs.Invoices, logg))
			r.Get("/{invoiceID}", controllers.GetInvoice(svcs.Invoices, logg))
			r.Post("/{invoiceID}/send", controllers.SendInvoice(svcs.Invoices, logg))
			r.Post("/{invoiceID}/pay", controllers.MarkInvoicePaid(svcs.Invoices, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.RecordPayment(svcs.Payments, logg))
			r.Get("/", controllers.ListPayments(svcs.Payments, logg))
			r.Post("/{paymentID}/refund", controllers.RefundPayment(svcs.Payments, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/", controllers.CreateWebhook(svcs.Webhooks, logg))
			r.Get("/", controllers.ListWebhooks(svcs.Webhooks, logg))
			r.Get("/{webhookID}", controllers.GetWebhook(svcs.Webhooks, logg))
			r.Patch("/{webhookID}", controllers.UpdateWebhook(svcs.Webhooks, logg))
			r.Delete("/{webhookID}", controllers.DeleteWebhook(svcs.Webhooks, logg))
			r.Get("/{webhookID}/deliveries", controllers.ListWebhookDeliveries(svcs.Webhooks, logg))
			r.With(middleware.TestDeliveryRateLimit(cfg.TestRateLimit, redisClient, logg)).
				Post("/{webhookID}/test", controllers.TestWebhook(svcs.Webhooks, logg))
		})
	})

	return r
}
