package shop

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/champomix/champomix-api/internal/validate"
)

// Product is a row of the champomi table.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
}

// MarshalJSON renders the price with exactly two decimals, as stored.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Price       string  `json:"price"`
		Description *string `json:"description,omitempty"`
	}{p.ID, p.Name, p.Price.StringFixed(2), p.Description})
}

type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
}

// Check enforces what the JSON schema cannot express for a decimal price.
func (in *ProductInput) Check() error {
	if in.Price.IsNegative() {
		return validate.FieldError("price", "must be greater than or equal to 0")
	}
	if !in.Price.Equal(in.Price.Truncate(2)) {
		return validate.FieldError("price", "must have at most 2 decimal places")
	}
	if !in.Price.LessThan(maxPrice) {
		return validate.FieldError("price", "must be lower than 100000000")
	}
	return nil
}

// numeric(10,2)
var maxPrice = decimal.New(1, 8)

// User is a row of the users table. Password holds whatever was stored: the
// submitted text, or its bcrypt hash when hashing is enabled.
type User struct {
	ID       int64  `json:"id"`
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`

	// DeletedOrderIDs lists the orders removed together with the user. Only
	// set on the result of UserRepo.Delete.
	DeletedOrderIDs []int64 `json:"deleted_order_ids,omitempty"`
}

type UserInput struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

// Order is a row of the orders table plus the products linked through
// order_champomi.
type Order struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	ProductIDs []int64 `json:"product_ids"`
}

type OrderInput struct {
	UserID int64 `json:"user_id"`
}
