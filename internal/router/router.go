package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dailymd-dev/dailymd/internal/handler"
	"github.com/dailymd-dev/dailymd/internal/jwt"
	"github.com/dailymd-dev/dailymd/internal/middleware"
	"github.com/dailymd-dev/dailymd/internal/middleware/metrics"
)

func New(h *handler.Handler, jwtService jwt.JwtService) http.Handler {
	auth := middleware.NewAuth(jwtService)
	needAuth := auth.NeedAuth()

	r := chi.NewRouter()
	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/verify/{verifyId}", h.Verify)
		r.Post("/login", h.Login)

		r.Post("/requestPasswordReset", h.RequestPasswordReset)
		r.Post("/authenticatePasswordReset/{authenticateId}", h.AuthenticatePasswordReset)
		r.Post("/changePassword/{authenticateId}", h.ChangePassword)

		r.Get("/profile/{userId}", h.Profile)
		r.Get("/subscriptions/{userId}", h.Subscriptions)
		r.Get("/blogs/{userId}", h.BlogsByAuthor)

		r.Group(func(r chi.Router) {
			r.Use(needAuth)
			r.Post("/subscribe/{targetId}", h.Subscribe)
			r.Post("/unsubscribe/{targetId}", h.Unsubscribe)
			r.Get("/isSubscribed/{targetId}", h.IsSubscribed)
			r.Delete("/remove", h.Remove)
		})
	})

	r.Route("/api/blog", func(r chi.Router) {
		r.Get("/view/{blogId}", h.ViewBlog)
		r.Get("/comments/{blogId}", h.BlogComments)
		r.Get("/recent", h.RecentBlogs)
		r.Get("/search", h.SearchBlogs)

		r.Group(func(r chi.Router) {
			r.Use(needAuth)
			r.Post("/create", h.CreateBlog)
			r.Get("/subscriptions", h.SubscriptionFeed)
			r.Put("/update/{blogId}", h.UpdateBlog)
			r.Delete("/delete/{blogId}", h.DeleteBlog)
			r.Post("/rate/{blogId}", h.RateBlog)
			r.Post("/postComment/{blogId}", h.PostComment)
			r.Delete("/deleteComment/{blogId}/{commentId}", h.DeleteComment)
		})
	})

	return r
}
