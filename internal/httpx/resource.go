package httpx

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/champomix/champomix-api/internal/shop"
	"github.com/champomix/champomix-api/internal/validate"
)

const (
	maxBodyBytes = 1 << 20
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

// checker is implemented by payloads with rules beyond their JSON schema.
type checker interface {
	Check() error
}

// resourceHandler serves list, get, create, replace and delete for one entity.
type resourceHandler[T any, P any] struct {
	repo      shop.Repository[T, P]
	validator *validate.Validator
	schemaID  string
	idOf      func(T) int64
	events    entityEvents
	emitter   *Emitter
}

func (h *resourceHandler[T, P]) Register(r chi.Router, path string) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.replace)
		r.Delete("/{id}", h.delete)
	})
}

func (h *resourceHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	items, err := h.repo.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resourceHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	in, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	item, err := h.repo.Create(ctx, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.emitter.emit(r, h.events.topic, h.events.created, h.idOf(item), item)
	writeJSON(w, http.StatusCreated, item)
}

func (h *resourceHandler[T, P]) replace(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	item, err := h.repo.Replace(ctx, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.emitter.emit(r, h.events.topic, h.events.replaced, id, item)
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	item, err := h.repo.Delete(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.emitter.emit(r, h.events.topic, h.events.deleted, id, item)
	w.WriteHeader(http.StatusNoContent)
}

// decode validates the raw body against the entity schema, then decodes it.
func (h *resourceHandler[T, P]) decode(w http.ResponseWriter, r *http.Request) (P, error) {
	var in P
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return in, &validate.Error{Message: "unreadable or oversized body"}
	}
	if err := h.validator.Validate(h.schemaID, body); err != nil {
		return in, err
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return in, &validate.Error{Message: "invalid json"}
	}
	if c, ok := any(&in).(checker); ok {
		if err := c.Check(); err != nil {
			return in, err
		}
	}
	return in, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &validate.Error{Message: "invalid id"}
	}
	return id, nil
}
