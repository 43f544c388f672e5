package shop

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/champomix/champomix-api/internal/postgres"
)

type ProductRepo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, price, description`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description)
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM champomi ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list champomi: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan champomi: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM champomi WHERE id=$1`, id))
	if err != nil {
		return Product{}, rowErr(err, "champomi", id)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		p, err = scanProduct(tx.QueryRow(ctx, `
			INSERT INTO champomi(name, price, description)
			VALUES ($1, $2, $3)
			RETURNING `+productColumns, in.Name, in.Price, in.Description))
		return err
	})
	if err != nil {
		return Product{}, fmt.Errorf("insert champomi: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Replace(ctx context.Context, id int64, in ProductInput) (Product, error) {
	var p Product
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		p, err = scanProduct(tx.QueryRow(ctx, `
			UPDATE champomi SET name=$2, price=$3, description=$4
			WHERE id=$1
			RETURNING `+productColumns, id, in.Name, in.Price, in.Description))
		return err
	})
	if err != nil {
		return Product{}, rowErr(err, "champomi", id)
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := postgres.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		p, err = scanProduct(tx.QueryRow(ctx, `DELETE FROM champomi WHERE id=$1 RETURNING `+productColumns, id))
		return err
	})
	if err != nil {
		return Product{}, rowErr(err, "champomi", id)
	}
	return p, nil
}
