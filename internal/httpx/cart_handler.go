package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/champomix/champomix-api/internal/cart"
	"github.com/champomix/champomix-api/internal/validate"
)

type cartHandler struct {
	store     cart.Store
	validator *validate.Validator
	images    []string
}

// quantity accepts 3, 3.0 and "3".
type quantity int

var (
	minQuantity = decimal.NewFromInt(math.MinInt)
	maxQuantity = decimal.NewFromInt(math.MaxInt)
)

func (q *quantity) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(b), `"`))
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	if !d.IsInteger() || d.LessThan(minQuantity) || d.GreaterThan(maxQuantity) {
		return fmt.Errorf("quantity %s is not an int", d)
	}
	*q = quantity(d.IntPart())
	return nil
}

type addToCartReq struct {
	Image    string   `json:"image"`
	Quantity quantity `json:"quantity"`
}

func (h *cartHandler) Register(r chi.Router) {
	r.Get("/gallery", h.gallery)
	r.Get("/cart", h.view)
	r.Post("/add_to_cart", h.add)
}

func (h *cartHandler) gallery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"images": h.images})
}

func (h *cartHandler) view(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	items, err := h.store.Items(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// add echoes the line that was added, not the merged total.
func (h *cartHandler) add(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, &validate.Error{Message: "unreadable or oversized body"})
		return
	}
	if err := h.validator.Validate(validate.CartItem, body); err != nil {
		writeError(w, r, err)
		return
	}
	var req addToCartReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, validate.FieldError("quantity", "must be an integer"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := h.store.Add(ctx, req.Image, int(req.Quantity)); err != nil {
		if errors.Is(err, cart.ErrQuantityOverflow) {
			err = validate.FieldError("quantity", err.Error())
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.Item{Image: req.Image, Quantity: int(req.Quantity)})
}
