package shop

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/champomix/champomix-api/internal/validate"
)

func TestProductInputCheck(t *testing.T) {
	tests := []struct {
		price string
		field bool
	}{
		{"0", false},
		{"3.5", false},
		{"3.50", false},
		{"99999999.99", false},
		{"3.555", true},
		{"-1", true},
		{"100000000", true},
	}
	for _, tt := range tests {
		in := ProductInput{Name: "Mango", Price: decimal.RequireFromString(tt.price)}
		err := in.Check()
		if !tt.field {
			assert.NoError(t, err, tt.price)
			continue
		}
		var verr *validate.Error
		require.ErrorAs(t, err, &verr, tt.price)
		assert.Contains(t, verr.Fields, "price")
	}
}

func TestProductJSON(t *testing.T) {
	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mango","price":3.5}`), &in))
	assert.True(t, in.Price.Equal(decimal.RequireFromString("3.5")))
	assert.Nil(t, in.Description)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mango","price":"2.25","description":"x"}`), &in))
	assert.True(t, in.Price.Equal(decimal.RequireFromString("2.25")))
	require.NotNil(t, in.Description)

	b, err := json.Marshal(Product{ID: 1, Name: "Mango", Price: decimal.RequireFromString("2.25")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Mango","price":"2.25"}`, string(b))
}

func TestProductPriceHasTwoDecimals(t *testing.T) {
	desc := "sweet"
	for price, want := range map[string]string{"3.5": "3.50", "3.50": "3.50", "0": "0.00", "12": "12.00"} {
		b, err := json.Marshal(Product{ID: 1, Name: "Mango", Price: decimal.RequireFromString(price), Description: &desc})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"name":"Mango","price":"`+want+`","description":"sweet"}`, string(b), price)
	}
}

func TestUserJSONHidesCascadeWhenEmpty(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Pseudo: "alice", Password: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"pseudo":"alice","password":"p"}`, string(b))
}

func TestStoredPassword(t *testing.T) {
	pw, err := storedPassword("secret", false)
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)

	pw, err = storedPassword("secret", true)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", pw)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(pw), []byte("secret")))
}

func TestRowErr(t *testing.T) {
	err := rowErr(pgx.ErrNoRows, "user", 7)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "user 7 not found", err.Error())

	boom := errors.New("boom")
	err = rowErr(boom, "user", 7)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOrderWriteErr(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgForeignKeyViolation})
	err := orderWriteErr(fk, 9999, "insert order")
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "9999")

	err = orderWriteErr(notFound("order", 3), 1, "replace order 3")
	require.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	err = orderWriteErr(boom, 1, "insert order")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestNewEnvelope(t *testing.T) {
	payload, err := json.Marshal(Order{ID: 42, UserID: 1, ProductIDs: []int64{}})
	require.NoError(t, err)

	env := NewEnvelope(EventOrderCreated, "champomix-api", "req-1", 42, payload)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventOrderCreated, env.EventType)
	assert.Equal(t, EventVersion, env.EventVersion)
	assert.Equal(t, "42", env.CorrelationID)
	assert.Equal(t, "req-1", env.TraceID)
	assert.False(t, env.OccurredAt.IsZero())

	var o Order
	require.NoError(t, json.Unmarshal(env.Payload, &o))
	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, []byte("42"), PartitionKey(42))
}
