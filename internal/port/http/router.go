package httpserver

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimit      config.RateLimitConfig
	AllowedOrigins []string
	Metrics        *metrics.MetricsManager
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, envelope{Message: "Too many requests, please try again later."})
}

func limitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// NewRouter builds the full REST surface under /api plus /healthz and /metrics.
func NewRouter(h *Handler, cfg RouterConfig, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limitByIP(cfg.RateLimit.GlobalRequests, cfg.RateLimit.GlobalWindow))
	r.Use(Tracing)
	r.Use(Metrics(cfg.Metrics))
	r.Use(AccessLog(log.Named("http")))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, "ok", nil)
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	authLimit := limitByIP(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)
	loginLimit := limitByIP(cfg.RateLimit.LoginRequests, cfg.RateLimit.AuthWindow)
	requireUser := RequireUser(h.svc.Auth, h.log)
	requireAdmin := RequireAdmin(h.svc.Auth, h.log)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.With(authLimit).Post("/register", h.Register)
			ar.With(loginLimit).Post("/login", h.Login)
			ar.Post("/send-code", h.SendCode)
			ar.Post("/verify-code", h.VerifyCode)
			ar.Post("/verify", h.VerifyCode)
			ar.Post("/refresh-token", h.RefreshToken)
			ar.With(authLimit).Post("/forgot-password", h.ForgotPassword)
			ar.With(authLimit).Post("/reset-password", h.ResetPassword)

			ar.Group(func(pr chi.Router) {
				pr.Use(requireUser)
				pr.Get("/status", h.AuthStatus)
				pr.Get("/me", h.Me)
				pr.Post("/change-password", h.ChangePassword)
				pr.Post("/logout", h.Logout)
			})
		})

		api.Get("/vehicles", h.ListVehicles)
		api.Get("/vehicles/{id}", h.GetVehicle)
		api.Get("/categories", h.ListCategories)
		api.Get("/categories/{id}", h.GetCategory)
		api.Get("/categories/{id}/vehicles", h.CategoryVehicles)

		api.Group(func(pr chi.Router) {
			pr.Use(requireUser)

			pr.Route("/cart", func(cr chi.Router) {
				cr.Get("/", h.GetCart)
				cr.Post("/add", h.AddToCart)
				cr.Put("/update", h.UpdateCartItem)
				cr.Delete("/remove/{carId}", h.RemoveFromCart)
				cr.Delete("/clear", h.ClearCart)
			})

			pr.Route("/orders", func(or chi.Router) {
				or.Post("/checkout", h.Checkout)
				or.Get("/my-orders", h.MyOrders)
				or.Get("/{orderId}", h.GetOrder)
				or.Get("/{orderId}/receipt", h.DownloadReceipt)
				or.Put("/{orderId}/cancel", h.CancelOrder)
			})

			pr.Route("/bookmarks", func(br chi.Router) {
				br.Post("/toggle", h.ToggleBookmark)
				br.Get("/", h.ListBookmarks)
				br.Get("/check/{carId}", h.CheckBookmark)
				br.Delete("/{carId}", h.RemoveBookmark)
			})

			pr.Route("/profile", func(pf chi.Router) {
				pf.Get("/", h.GetProfile)
				pf.Put("/update", h.UpdateProfile)
				pf.Post("/change-password", h.ChangePassword)
				pf.Post("/upload-image", h.UploadProfileImage)
			})
		})

		api.Route("/admin", func(ad chi.Router) {
			ad.With(loginLimit).Post("/login", h.AdminLogin)
			ad.Post("/logout", h.AdminLogout)

			ad.Group(func(pr chi.Router) {
				pr.Use(requireAdmin)

				pr.Get("/stats/users", h.AdminUserStats)
				pr.Get("/stats/orders", h.AdminOrderStats)
				pr.Get("/analytics", h.AdminAnalytics)
				pr.Get("/users", h.AdminListUsers)
				pr.Get("/admins", h.AdminListAdmins)
				pr.Post("/admins", h.AdminCreateAdmin)

				pr.Post("/vehicles", h.CreateVehicle)
				pr.Post("/vehicles/bulk-update", h.BulkUpdateVehicles)
				pr.Post("/vehicles/bulk-delete", h.BulkDeleteVehicles)
				pr.Put("/vehicles/{id}", h.UpdateVehicle)
				pr.Delete("/vehicles/{id}", h.DeleteVehicle)
				pr.Post("/vehicles/{id}/images", h.UploadVehicleImages)

				pr.Post("/categories", h.CreateCategory)
				pr.Put("/categories/{id}", h.UpdateCategory)
				pr.Delete("/categories/{id}", h.DeleteCategory)

				pr.Get("/orders", h.AdminListOrders)
				pr.Put("/orders/{orderId}/status", h.AdminUpdateOrderStatus)
			})
		})
	})

	return r
}
