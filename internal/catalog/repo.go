package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

const selectProduct = `
	SELECT p.id_produto, p.nome_produto, COALESCE(p.descricao, ''), p.preco, p.quantidade_estoque,
	       p.id_categoria, c.nome_categoria, COALESCE(p.imagem_url, '')
	FROM produtos p
	LEFT JOIN categorias c ON p.id_categoria = c.id_categoria`

// Repo is the product repository. DB is used whenever the caller does not
// hand in its own transaction.
type Repo struct{ DB postgres.Querier }

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.CategoryName, &p.ImageURL)
	return p, err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Product, error) {
	return r.getByID(ctx, r.DB, id)
}

func (r *Repo) getByID(ctx context.Context, q postgres.Querier, id int64) (Product, error) {
	p, err := scanProduct(q.QueryRow(ctx, selectProduct+` WHERE p.id_produto = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("catalog: get product %d: %w", id, err)
	}
	return p, nil
}

// AdjustStock adds delta to the product stock in one conditional statement,
// so stock never goes below zero even with concurrent adjustments. When q is
// nil the statement runs on its own outside any caller transaction.
func (r *Repo) AdjustStock(ctx context.Context, q postgres.Querier, id int64, delta int) error {
	if q == nil {
		q = r.DB
	}
	ct, err := q.Exec(ctx, `
		UPDATE produtos
		SET quantidade_estoque = quantidade_estoque + $2
		WHERE id_produto = $1 AND quantidade_estoque + $2 >= 0`, id, delta)
	if err != nil {
		return fmt.Errorf("catalog: adjust stock %d: %w", id, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	p, err := r.getByID(ctx, q, id)
	if err == nil && p.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	return ErrStockNotAdjusted
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Product, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(selectProduct)
	sb.WriteString(` WHERE 1=1`)
	if f.Category != "" {
		args = append(args, f.Category)
		fmt.Fprintf(&sb, ` AND c.nome_categoria = $%d`, len(args))
	}
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		fmt.Fprintf(&sb, ` AND p.nome_produto ILIKE $%d`, len(args))
	}
	sb.WriteString(` ORDER BY p.id_produto`)

	rows, err := r.DB.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	p := Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO produtos (nome_produto, descricao, preco, quantidade_estoque, id_categoria, imagem_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_produto`,
		p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: create product: %w", err)
	}
	return p, nil
}

// Update reports false when no row matched id.
func (r *Repo) Update(ctx context.Context, id int64, in ProductInput) (bool, error) {
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE produtos SET
			nome_produto = $1,
			descricao = $2,
			preco = $3,
			quantidade_estoque = $4,
			id_categoria = $5,
			imagem_url = $6
		WHERE id_produto = $7`,
		in.Name, in.Description, in.Price, stock, in.CategoryID, in.ImageURL, id,
	)
	if err != nil {
		return false, fmt.Errorf("catalog: update product %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete reports false when no row matched id. Products already referenced
// by an order cannot be removed.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM produtos WHERE id_produto = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, ErrReferenced
		}
		return false, fmt.Errorf("catalog: delete product %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
