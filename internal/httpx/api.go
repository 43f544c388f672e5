package httpx

import (
	"github.com/go-chi/chi/v5"

	"github.com/champomix/champomix-api/internal/cart"
	"github.com/champomix/champomix-api/internal/shop"
	"github.com/champomix/champomix-api/internal/validate"
)

// API wires the entity repositories and the cart demo to their routes.
type API struct {
	Products  shop.Repository[shop.Product, shop.ProductInput]
	Users     shop.Repository[shop.User, shop.UserInput]
	Orders    shop.Repository[shop.Order, shop.OrderInput]
	Validator *validate.Validator
	Events    *Emitter

	Cart   cart.Store
	Images []string
}

func (a *API) Register(r chi.Router) {
	(&resourceHandler[shop.Product, shop.ProductInput]{
		repo:      a.Products,
		validator: a.Validator,
		schemaID:  validate.Product,
		idOf:      func(p shop.Product) int64 { return p.ID },
		events:    productEvents,
		emitter:   a.Events,
	}).Register(r, "/champomi")

	(&resourceHandler[shop.User, shop.UserInput]{
		repo:      a.Users,
		validator: a.Validator,
		schemaID:  validate.User,
		idOf:      func(u shop.User) int64 { return u.ID },
		events:    userEvents,
		emitter:   a.Events,
	}).Register(r, "/users")

	(&resourceHandler[shop.Order, shop.OrderInput]{
		repo:      a.Orders,
		validator: a.Validator,
		schemaID:  validate.Order,
		idOf:      func(o shop.Order) int64 { return o.ID },
		events:    orderEvents,
		emitter:   a.Events,
	}).Register(r, "/orders")

	ch := &cartHandler{store: a.Cart, validator: a.Validator, images: a.Images}
	ch.Register(r)

	r.Get("/", home)
	r.Get("/api/hello", hello)
	r.Get("/api/data", data)
}
