package shop

import "context"

// Repository is the Persistence Gateway for one entity. T is the stored
// representation, P the payload accepted by Create and Replace.
type Repository[T any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in P) (T, error)
	Replace(ctx context.Context, id int64, in P) (T, error)
	// Delete removes the row and returns what was removed.
	Delete(ctx context.Context, id int64) (T, error)
}

var (
	_ Repository[Product, ProductInput] = (*ProductRepo)(nil)
	_ Repository[User, UserInput]       = (*UserRepo)(nil)
	_ Repository[Order, OrderInput]     = (*OrderRepo)(nil)
)
