package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financas/internal/auth"
	"financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// Server wires the API routes to the service layer. Everything under
// /api except registration and login sits behind the bearer-token
// middleware, so every handler runs with a user id on the context.
type Server struct {
	http.Server

	users      *services.UserService
	categories *services.CategoryService
	cards      *services.CardService
	accounts   *services.AccountService
	purchases  *services.PurchaseService
	entries    *services.EntryService

	logger       *log.Logger
	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

type Deps struct {
	Users      *services.UserService
	Categories *services.CategoryService
	Cards      *services.CardService
	Accounts   *services.AccountService
	Purchases  *services.PurchaseService
	Entries    *services.EntryService
	Issuer     *auth.Issuer
	Logger     *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		users:       deps.Users,
		categories:  deps.Categories,
		cards:       deps.Cards,
		accounts:    deps.Accounts,
		purchases:   deps.Purchases,
		entries:     deps.Entries,
		logger:      deps.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	protect := auth.Middleware(deps.Issuer, s.logger)
	throttle := s.rateLimiter.Middleware(clientIP)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleHealth)

	// Credential endpoints are open but throttled.
	mux.Handle("POST /api/usuarios/registro", throttle(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/usuarios/login", throttle(http.HandlerFunc(s.handleLogin)))

	mux.Handle("GET /api/usuarios", protect(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("GET /api/usuarios/{id}", protect(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("PUT /api/usuarios/{id}", protect(http.HandlerFunc(s.handleUpdateUser)))
	mux.Handle("DELETE /api/usuarios/{id}", protect(http.HandlerFunc(s.handleDeleteUser)))

	mux.Handle("POST /api/categorias", protect(http.HandlerFunc(s.handleCreateCategory)))
	mux.Handle("GET /api/categorias", protect(http.HandlerFunc(s.handleListCategories)))
	mux.Handle("GET /api/categorias/{id}", protect(http.HandlerFunc(s.handleGetCategory)))
	mux.Handle("PUT /api/categorias/{id}", protect(http.HandlerFunc(s.handleUpdateCategory)))
	mux.Handle("DELETE /api/categorias/{id}", protect(http.HandlerFunc(s.handleDeleteCategory)))

	mux.Handle("POST /api/cartoes", protect(http.HandlerFunc(s.handleCreateCard)))
	mux.Handle("GET /api/cartoes", protect(http.HandlerFunc(s.handleListCards)))
	mux.Handle("GET /api/cartoes/{id}", protect(http.HandlerFunc(s.handleGetCard)))
	mux.Handle("PUT /api/cartoes/{id}", protect(http.HandlerFunc(s.handleUpdateCard)))
	mux.Handle("DELETE /api/cartoes/{id}", protect(http.HandlerFunc(s.handleDeleteCard)))

	mux.Handle("POST /api/contas", protect(http.HandlerFunc(s.handleCreateAccount)))
	mux.Handle("GET /api/contas", protect(http.HandlerFunc(s.handleListAccounts)))
	mux.Handle("GET /api/contas/{id}", protect(http.HandlerFunc(s.handleGetAccount)))
	mux.Handle("PUT /api/contas/{id}", protect(http.HandlerFunc(s.handleUpdateAccount)))
	mux.Handle("DELETE /api/contas/{id}", protect(http.HandlerFunc(s.handleDeleteAccount)))

	mux.Handle("POST /api/compras", protect(http.HandlerFunc(s.handleCreatePurchase)))
	mux.Handle("GET /api/compras", protect(http.HandlerFunc(s.handleListPurchases)))
	mux.Handle("GET /api/compras/{id}", protect(http.HandlerFunc(s.handleGetPurchase)))
	mux.Handle("PUT /api/compras/{id}", protect(http.HandlerFunc(s.handleUpdatePurchase)))
	mux.Handle("DELETE /api/compras/{id}", protect(http.HandlerFunc(s.handleDeletePurchase)))

	mux.Handle("POST /api/receitas", protect(http.HandlerFunc(s.handleCreateEntry)))
	mux.Handle("GET /api/receitas", protect(http.HandlerFunc(s.handleListEntries)))
	mux.Handle("GET /api/receitas/tipo/{tipo}", protect(http.HandlerFunc(s.handleListEntriesByType)))
	mux.Handle("GET /api/receitas/{id}", protect(http.HandlerFunc(s.handleGetEntry)))
	mux.Handle("PUT /api/receitas/{id}", protect(http.HandlerFunc(s.handleUpdateEntry)))
	mux.Handle("DELETE /api/receitas/{id}", protect(http.HandlerFunc(s.handleDeleteEntry)))

	tracer := trace.NewMiddleware(clientIP, deps.Logger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	// Outside-in: trace assigns the id, headers harden the response,
	// then the context logger picks the id up for handlers.
	handler := log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(mux)
	handler = log.Middleware(s.logger)(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
