package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/pile"
	"github.com/matzehuels/cartpile/pkg/render"
	"github.com/matzehuels/cartpile/pkg/store"
	"github.com/matzehuels/cartpile/pkg/survival"
)

type createCartRequest struct {
	ID       string  `json:"id"`
	Capacity *int    `json:"capacity"`
	Seed     *uint64 `json:"seed"`
}

type itemRequest struct {
	Name  string  `json:"name"`
	Tag   string  `json:"tag"`
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

func (req itemRequest) item() cart.Item {
	it := cart.NewItem(req.Name, cart.Tag(strings.ToLower(req.Tag)), req.Width)
	it.Color = req.Color
	return it
}

type cartView struct {
	ID        string           `json:"id"`
	Count     int              `json:"count"`
	Capacity  int              `json:"capacity"`
	Full      bool             `json:"full"`
	HP        int              `json:"hp"`
	MaxHP     int              `json:"max_hp"`
	Depleted  bool             `json:"depleted"`
	Cursor    pile.CursorState `json:"cursor"`
	Entries   []cart.Entry     `json:"entries"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func newCartView(snap *store.Snapshot) cartView {
	entries := snap.Entries
	if entries == nil {
		entries = []cart.Entry{}
	}
	return cartView{
		ID:        snap.ID,
		Count:     snap.Len(),
		Capacity:  snap.Config.Capacity,
		Full:      snap.Len() >= snap.Config.Capacity,
		HP:        snap.HP,
		MaxHP:     snap.Meter.Max,
		Depleted:  snap.HP <= snap.Meter.Min,
		Cursor:    snap.Cursor,
		Entries:   entries,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}
}

type dropResponse struct {
	Entry cart.Entry `json:"entry"`
	Line  string     `json:"line"`
	Cart  cartView   `json:"cart"`
}

type hoverResponse struct {
	State string `json:"state"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request) {
	m := s.dialogue.Lookup(chi.URLParam(r, "item"))
	writeJSON(w, http.StatusOK, map[string]any{
		"line":   m.Text,
		"source": m.Source,
		"key":    m.Key,
	})
}

func (s *Server) handleListCarts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"carts": ids})
}

func (s *Server) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := s.decode(w, r, createCartValidator, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := s.cfg.Cart
	if req.Capacity != nil {
		cfg.Capacity = *req.Capacity
	}
	if req.Seed != nil {
		cfg.Pile.Seed = *req.Seed
	}
	meter, err := survival.NewMeter(s.cfg.Meter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := []cart.Option{cart.WithEffect(meter), cart.WithLogger(s.logger)}
	if req.ID != "" {
		opts = append(opts, cart.WithID(req.ID))
	}
	c, err := cart.New(cfg, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	defer s.lock(c.ID())()
	switch _, err := s.store.Get(r.Context(), c.ID()); {
	case err == nil:
		s.writeError(w, r, errors.New(errors.ErrCodeConflict, "cart %s already exists", c.ID()))
		return
	case !errors.Is(err, errors.ErrCodeNotFound):
		s.writeError(w, r, err)
		return
	}

	snap := store.NewSnapshot(c, meter)
	if err := s.store.Set(r.Context(), snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("cart created", "cart", c.ID(), "capacity", cfg.Capacity)
	w.Header().Set("Location", "/carts/"+c.ID())
	writeJSON(w, http.StatusCreated, newCartView(snap))
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(snap))
}

func (s *Server) handleDeleteCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.lock(id)()
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("cart deleted", "cart", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := s.decode(w, r, itemValidator, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var state cart.HoverState
	err := s.withCart(r.Context(), chi.URLParam(r, "id"), false, func(c *cart.Cart, _ *survival.Meter) error {
		state = c.Hover(req.item())
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hoverResponse{State: state.String()})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := s.decode(w, r, itemValidator, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	it := req.item()
	if err := it.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	var entry cart.Entry
	snap, err := s.update(r.Context(), chi.URLParam(r, "id"), func(c *cart.Cart, _ *survival.Meter) error {
		var err error
		entry, err = c.Drop(r.Context(), it)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dropResponse{
		Entry: entry,
		Line:  s.dialogue.Line(it.Name),
		Cart:  newCartView(snap),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.update(r.Context(), chi.URLParam(r, "id"), func(c *cart.Cart, m *survival.Meter) error {
		c.Reset()
		m.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(snap))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var l render.Layout
	err := s.withCart(r.Context(), chi.URLParam(r, "id"), false, func(c *cart.Cart, m *survival.Meter) error {
		l = render.NewLayout(c, m)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format := chi.URLParam(r, "format"); format {
	case "svg":
		data, contentType = render.RenderSVG(l, render.WithLabels(), render.WithMeter()), "image/svg+xml"
	case "json":
		data, err = render.RenderJSON(l)
		contentType = "application/json"
	case "xlsx":
		data, err = render.RenderXLSX(l)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", l.CartID+".xlsx"))
	case "html":
		data, err = render.RenderChart(l)
		contentType = "text/html; charset=utf-8"
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want svg, json, xlsx or html)", format)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

// withCart loads a cart, runs fn on it and, when save is set, stores the
// result. The cart is locked for the duration.
func (s *Server) withCart(ctx context.Context, id string, save bool, fn func(*cart.Cart, *survival.Meter) error) error {
	_, err := s.modify(ctx, id, save, fn)
	return err
}

// update is withCart with save set; it returns the stored snapshot.
func (s *Server) update(ctx context.Context, id string, fn func(*cart.Cart, *survival.Meter) error) (*store.Snapshot, error) {
	return s.modify(ctx, id, true, fn)
}

func (s *Server) modify(ctx context.Context, id string, save bool, fn func(*cart.Cart, *survival.Meter) error) (*store.Snapshot, error) {
	if err := errors.ValidateCartID(id); err != nil {
		return nil, err
	}
	defer s.lock(id)()

	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c, m, err := snap.Restore(cart.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	if err := fn(c, m); err != nil {
		return nil, err
	}
	if !save {
		return snap, nil
	}

	next := store.NewSnapshot(c, m)
	next.CreatedAt = snap.CreatedAt
	if err := s.store.Set(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
