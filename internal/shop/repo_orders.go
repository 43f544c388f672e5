package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/champomix/champomix-api/internal/postgres"
)

type OrderRepo struct{ DB *pgxpool.Pool }

const orderSelect = `
	SELECT o.id, o.user_id,
	       COALESCE(array_agg(oc.champomi_id ORDER BY oc.champomi_id)
	                FILTER (WHERE oc.champomi_id IS NOT NULL), '{}')
	FROM orders o
	LEFT JOIN order_champomi oc ON oc.order_id = o.id`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductIDs)
	if o.ProductIDs == nil {
		o.ProductIDs = []int64{}
	}
	return o, err
}

func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+` GROUP BY o.id ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, orderSelect+` WHERE o.id=$1 GROUP BY o.id`, id))
	if err != nil {
		return Order{}, rowErr(err, "order", id)
	}
	return o, nil
}

// Create inserts an order for an existing user. A missing user yields
// ErrUserNotFound and nothing is written.
func (r *OrderRepo) Create(ctx context.Context, in OrderInput) (Order, error) {
	o := Order{UserID: in.UserID, ProductIDs: []int64{}}
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, in.UserID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO orders(user_id) VALUES ($1) RETURNING id`, in.UserID).Scan(&o.ID)
	})
	if err != nil {
		return Order{}, orderWriteErr(err, in.UserID, "insert order")
	}
	return o, nil
}

func (r *OrderRepo) Replace(ctx context.Context, id int64, in OrderInput) (Order, error) {
	var o Order
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var cur int64
		err := tx.QueryRow(ctx, `SELECT id FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
		if err != nil {
			return rowErr(err, "order", id)
		}
		if err := lockUser(ctx, tx, in.UserID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET user_id=$2 WHERE id=$1`, id, in.UserID); err != nil {
			return err
		}
		o, err = scanOrder(tx.QueryRow(ctx, orderSelect+` WHERE o.id=$1 GROUP BY o.id`, id))
		return err
	})
	if err != nil {
		return Order{}, orderWriteErr(err, in.UserID, fmt.Sprintf("replace order %d", id))
	}
	return o, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		o, err = scanOrder(tx.QueryRow(ctx, orderSelect+` WHERE o.id=$1 GROUP BY o.id`, id))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
		return err
	})
	if err != nil {
		return Order{}, rowErr(err, "order", id)
	}
	return o, nil
}

// DeleteByUser removes every order owned by userID and returns their ids.
func (r *OrderRepo) DeleteByUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		ids, err = deleteOrdersOf(ctx, tx, userID)
		return err
	})
	return ids, err
}

// lockUser holds a share lock on the user row so it cannot be deleted before
// the order referencing it is committed.
func lockUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id=$1 FOR SHARE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return userNotFound(userID)
	}
	if err != nil {
		return fmt.Errorf("lock user %d: %w", userID, err)
	}
	return nil
}

func deleteOrdersOf(ctx context.Context, tx pgx.Tx, userID int64) ([]int64, error) {
	rows, err := tx.Query(ctx, `DELETE FROM orders WHERE user_id=$1 RETURNING id`, userID)
	if err != nil {
		return nil, fmt.Errorf("delete orders of user %d: %w", userID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("delete orders of user %d: %w", userID, err)
	}
	return ids, nil
}

func orderWriteErr(err error, userID int64, op string) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return err
	case isForeignKeyViolation(err):
		return userNotFound(userID)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
