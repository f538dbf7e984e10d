package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/observability"
	"github.com/matzehuels/bikebuilder/pkg/render"
)

type sessionResponse struct {
	ID   string       `json:"id"`
	Plan builder.Plan `json:"plan"`
}

type selectRequest struct {
	Category string `json:"category"`
	Slug     string `json:"slug,omitempty"`
	Model    string `json:"model,omitempty"`
}

type jumpRequest struct {
	Category string `json:"category"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("category")
	if name == "" {
		parts := s.store.Parts()
		if parts == nil {
			parts = []catalog.Part{}
		}
		writeJSON(w, http.StatusOK, parts)
		return
	}

	c, err := catalog.ParseCategory(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	parts, err := s.store.Filter(catalog.Query{
		Category:     c,
		Manufacturer: q.Get("manufacturer"),
		Search:       q.Get("q"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if parts == nil {
		parts = []catalog.Part{}
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleManufacturers(w http.ResponseWriter, r *http.Request) {
	m := s.store.Manufacturers()
	if m == nil {
		m = []string{}
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := builder.NewSession(s.store, s.logger)
	id := s.sessions.add(sess)
	observability.Session().OnSessionOpen(r.Context())
	s.logger.Debug("session opened", "id", id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, Plan: sess.Plan()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		s.writeError(w, r, sessionNotFound(id))
		return
	}
	observability.Session().OnSessionClose(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func sessionNotFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
}

// mutate runs fn under the session lock and responds with the plan taken
// under the same lock.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*builder.Session) error) {
	id := chi.URLParam(r, "id")
	var plan builder.Plan
	found, err := s.sessions.with(id, func(sess *builder.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		plan = sess.Plan()
		return nil
	})
	switch {
	case !found:
		s.writeError(w, r, sessionNotFound(id))
	case err != nil:
		s.writeError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, sessionResponse{ID: id, Plan: plan})
	}
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(*builder.Session) error { return nil })
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := catalog.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	key := strings.TrimSpace(req.Slug)
	if key == "" {
		key = strings.TrimSpace(req.Model)
	}
	if key == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "slug or model is required"))
		return
	}

	s.mutate(w, r, func(sess *builder.Session) error {
		if _, err := sess.SelectKey(c, key); err != nil {
			return err
		}
		observability.Session().OnSelect(r.Context(), string(c))
		return nil
	})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *builder.Session) error {
		from := sess.Current()
		err := sess.Advance()
		observability.Session().OnNavigate(r.Context(), "advance", string(from), err)
		return err
	})
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := catalog.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *builder.Session) error {
		err := sess.JumpTo(c)
		observability.Session().OnNavigate(r.Context(), "jump", string(c), err)
		return err
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	var plan builder.Plan
	found, _ := s.sessions.with(id, func(sess *builder.Session) error {
		plan = sess.Plan()
		return nil
	})
	if !found {
		s.writeError(w, r, sessionNotFound(id))
		return
	}

	data, err := s.renderCached(r.Context(), format, plan)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// renderCached renders outside the session lock; the plan is a value.
func (s *Server) renderCached(ctx context.Context, format string, plan builder.Plan) ([]byte, error) {
	key := s.keyer.ArtifactKey(cache.HashJSON(plan), cache.ArtifactKeyOpts{
		Format:    format,
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		AssetBase: s.cfg.AssetBase,
	})
	return cache.GetOrCompute(ctx, s.cfg.Cache, key, format, s.cfg.CacheTTL, func() ([]byte, error) {
		return render.Render(ctx, format, plan, render.Options{
			Width:     s.cfg.Width,
			Height:    s.cfg.Height,
			AssetBase: s.cfg.AssetBase,
			Loader:    s.cfg.Loader,
			Logger:    s.logger,
		})
	})
}
