package httpx

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/champomix/champomix-api/internal/shop"
)

// memDB mimics the Postgres gateway closely enough for handler tests.
type memDB struct {
	mu       sync.Mutex
	seq      int64
	products map[int64]shop.Product
	users    map[int64]shop.User
	orders   map[int64]shop.Order
	failWith error
}

func newMemDB() *memDB {
	return &memDB{
		products: map[int64]shop.Product{},
		users:    map[int64]shop.User{},
		orders:   map[int64]shop.Order{},
	}
}

func (db *memDB) next() int64 {
	db.seq++
	return db.seq
}

func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func missing(entity string, id int64) error {
	return fmt.Errorf("%s %d %w", entity, id, shop.ErrNotFound)
}

type memProducts struct{ db *memDB }

func (r memProducts) List(context.Context) ([]shop.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failWith != nil {
		return nil, r.db.failWith
	}
	return sortedValues(r.db.products), nil
}

func (r memProducts) Get(_ context.Context, id int64) (shop.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return shop.Product{}, missing("champomi", id)
	}
	return p, nil
}

func (r memProducts) Create(_ context.Context, in shop.ProductInput) (shop.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := shop.Product{ID: r.db.next(), Name: in.Name, Price: in.Price, Description: in.Description}
	r.db.products[p.ID] = p
	return p, nil
}

func (r memProducts) Replace(_ context.Context, id int64, in shop.ProductInput) (shop.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return shop.Product{}, missing("champomi", id)
	}
	p := shop.Product{ID: id, Name: in.Name, Price: in.Price, Description: in.Description}
	r.db.products[id] = p
	return p, nil
}

func (r memProducts) Delete(_ context.Context, id int64) (shop.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return shop.Product{}, missing("champomi", id)
	}
	delete(r.db.products, id)
	return p, nil
}

type memUsers struct{ db *memDB }

func (r memUsers) List(context.Context) ([]shop.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedValues(r.db.users), nil
}

func (r memUsers) Get(_ context.Context, id int64) (shop.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return shop.User{}, missing("user", id)
	}
	return u, nil
}

func (r memUsers) Create(_ context.Context, in shop.UserInput) (shop.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := shop.User{ID: r.db.next(), Pseudo: in.Pseudo, Password: in.Password}
	r.db.users[u.ID] = u
	return u, nil
}

func (r memUsers) Replace(_ context.Context, id int64, in shop.UserInput) (shop.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return shop.User{}, missing("user", id)
	}
	u := shop.User{ID: id, Pseudo: in.Pseudo, Password: in.Password}
	r.db.users[id] = u
	return u, nil
}

func (r memUsers) Delete(_ context.Context, id int64) (shop.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return shop.User{}, missing("user", id)
	}
	for oid, o := range r.db.orders {
		if o.UserID == id {
			delete(r.db.orders, oid)
			u.DeletedOrderIDs = append(u.DeletedOrderIDs, oid)
		}
	}
	delete(r.db.users, id)
	return u, nil
}

type memOrders struct{ db *memDB }

func (r memOrders) List(context.Context) ([]shop.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedValues(r.db.orders), nil
}

func (r memOrders) Get(_ context.Context, id int64) (shop.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return shop.Order{}, missing("order", id)
	}
	return o, nil
}

func (r memOrders) Create(_ context.Context, in shop.OrderInput) (shop.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[in.UserID]; !ok {
		return shop.Order{}, fmt.Errorf("%w: %d", shop.ErrUserNotFound, in.UserID)
	}
	o := shop.Order{ID: r.db.next(), UserID: in.UserID, ProductIDs: []int64{}}
	r.db.orders[o.ID] = o
	return o, nil
}

func (r memOrders) Replace(_ context.Context, id int64, in shop.OrderInput) (shop.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return shop.Order{}, missing("order", id)
	}
	if _, ok := r.db.users[in.UserID]; !ok {
		return shop.Order{}, fmt.Errorf("%w: %d", shop.ErrUserNotFound, in.UserID)
	}
	o.UserID = in.UserID
	r.db.orders[id] = o
	return o, nil
}

func (r memOrders) Delete(_ context.Context, id int64) (shop.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return shop.Order{}, missing("order", id)
	}
	delete(r.db.orders, id)
	return o, nil
}

type published struct {
	topic   string
	key     []byte
	value   []byte
	headers []kafkago.Header
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *recordingPublisher) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, key: key, value: value, headers: headers})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

var errStorageDown = errors.New("connection refused")
