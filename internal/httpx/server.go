package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-econstore/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

type Deps struct {
	Log       *slog.Logger
	Tokens    TokenVerifier
	Auth      *AuthHandler
	Products  *ProductsHandler
	Orders    *OrdersHandler
	StaticDir string // empty disables the frontend
	Timeout   time.Duration

	// LoginRate is the per-IP budget for the login routes, per minute.
	LoginRate int
}

func NewRouter(d Deps) *chi.Mux {
	if d.Timeout <= 0 {
		d.Timeout = 15 * time.Second
	}
	if d.LoginRate <= 0 {
		d.LoginRate = 10
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(secureHeaders(d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			message(w, http.StatusOK, "Bem-vindo à API da EconStore!")
		})

		limitLogin := httprate.Limit(d.LoginRate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
		r.Post("/auth/register", d.Auth.register)
		r.With(Authenticate(d.Tokens), RequireRole(auth.RoleShopkeeper)).Post("/auth/register-funcionario", d.Auth.registerStaff)
		r.With(limitLogin).Post("/auth/login", d.Auth.login)
		r.With(limitLogin).Post("/login-funcionario", d.Auth.loginEmployee)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", d.Products.list)
			r.Get("/{id}", d.Products.get)
			r.Group(func(r chi.Router) {
				r.Use(Authenticate(d.Tokens), RequireRole(auth.RoleShopkeeper))
				r.Post("/", d.Products.create)
				r.Put("/{id}", d.Products.update)
				r.Delete("/{id}", d.Products.delete)
			})
		})

		r.Get("/ver-pedidos", d.Orders.listAll)
		r.Route("/pedidos", func(r chi.Router) {
			r.Use(Authenticate(d.Tokens))
			r.Post("/", d.Orders.create)
			r.Get("/{id}/status", d.Orders.getStatus)
			r.With(RequireRole(auth.RoleShopkeeper)).Patch("/{id}/status", d.Orders.updateStatus)
		})
	})

	if d.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}
	return r
}
