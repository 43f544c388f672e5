package shop

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/champomix/champomix-api/internal/postgres"
)

type UserRepo struct {
	DB *pgxpool.Pool
	// HashPasswords stores bcrypt hashes instead of the submitted text.
	HashPasswords bool
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Pseudo, &u.Password)
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, pseudo, password FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT id, pseudo, password FROM users WHERE id=$1`, id))
	if err != nil {
		return User{}, rowErr(err, "user", id)
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, in UserInput) (User, error) {
	pw, err := storedPassword(in.Password, r.HashPasswords)
	if err != nil {
		return User{}, err
	}
	var u User
	err = postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users(pseudo, password) VALUES ($1, $2)
			RETURNING id, pseudo, password`, in.Pseudo, pw))
		return err
	})
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Replace(ctx context.Context, id int64, in UserInput) (User, error) {
	pw, err := storedPassword(in.Password, r.HashPasswords)
	if err != nil {
		return User{}, err
	}
	var u User
	err = postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx, `
			UPDATE users SET pseudo=$2, password=$3 WHERE id=$1
			RETURNING id, pseudo, password`, id, in.Pseudo, pw))
		return err
	})
	if err != nil {
		return User{}, rowErr(err, "user", id)
	}
	return u, nil
}

// Delete removes the user and every order it owns in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id int64) (User, error) {
	var u User
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx, `SELECT id, pseudo, password FROM users WHERE id=$1 FOR UPDATE`, id))
		if err != nil {
			return rowErr(err, "user", id)
		}

		u.DeletedOrderIDs, err = deleteOrdersOf(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}
