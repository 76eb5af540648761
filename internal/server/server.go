// Package server exposes carts over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /carts
//	POST   /carts                       create a cart
//	GET    /carts/{id}
//	DELETE /carts/{id}
//	POST   /carts/{id}/hover            hover feedback for an item
//	POST   /carts/{id}/drops            drop an item
//	POST   /carts/{id}/reset            empty the cart and refill the meter
//	GET    /carts/{id}/pile.{format}    svg, json, xlsx or html
//	GET    /dialogue/{item}
//
// Cart state lives in a [store.Store]. Requests for the same cart are
// serialised so concurrent drops cannot interleave their read-modify-write.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/dialogue"
	"github.com/matzehuels/cartpile/pkg/store"
)

// Server serves the cart API.
type Server struct {
	cfg      config.Config
	store    store.Store
	dialogue *dialogue.Catalog
	logger   *log.Logger

	mu    sync.Mutex
	locks map[string]*cartLock
}

// cartLock is a per-cart mutex. refs counts holders and waiters so the entry
// can be dropped once nobody uses it.
type cartLock struct {
	mu   sync.Mutex
	refs int
}

// New returns a server. cat and logger may be nil.
func New(cfg config.Config, st store.Store, cat *dialogue.Catalog, logger *log.Logger) *Server {
	if cat == nil {
		cat = dialogue.New()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		dialogue: cat,
		logger:   logger,
		locks:    make(map[string]*cartLock),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/dialogue/{item}", s.handleDialogue)

	r.Route("/carts", func(r chi.Router) {
		r.Get("/", s.handleListCarts)
		r.Post("/", s.handleCreateCart)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCart)
			r.Delete("/", s.handleDeleteCart)
			r.Post("/hover", s.handleHover)
			r.Post("/drops", s.handleDrop)
			r.Post("/reset", s.handleReset)
			r.Get("/pile.{format}", s.handleRender)
		})
	})
	return r
}

// Run serves on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "store", s.cfg.Store.Backend)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// lock serialises work on one cart. The returned func releases it and
// removes the entry when no other request holds or waits for it.
func (s *Server) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &cartLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// lockCount returns the number of cart locks currently tracked.
func (s *Server) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
