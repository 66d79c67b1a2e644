package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// Repo holds the order SQL. Writes take the caller's transaction; reads go
// through DB.
type Repo struct{ DB postgres.Querier }

func (r *Repo) InsertOrder(ctx context.Context, q postgres.Querier, o Order) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO pedidos (id_usuario, valor_total, status_pedido, data_pedido)
		VALUES ($1, $2, $3, now())
		RETURNING id_pedido`,
		o.UserID, o.Total, string(o.Status),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) InsertItem(ctx context.Context, q postgres.Querier, it OrderItem) error {
	_, err := q.Exec(ctx, `
		INSERT INTO itens_pedido (id_pedido, id_produto, quantidade, preco_unitario)
		VALUES ($1, $2, $3, $4)`,
		it.OrderID, it.ProductID, it.Quantity, it.UnitPrice,
	)
	return err
}

func (r *Repo) ListOrders(ctx context.Context) ([]OrderView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id_pedido, p.id_usuario, u.nome_completo, p.valor_total, p.status_pedido, p.data_pedido
		FROM pedidos p
		JOIN usuarios u ON p.id_usuario = u.id_usuario
		ORDER BY p.data_pedido DESC, p.id_pedido DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderView
	for rows.Next() {
		var (
			v      OrderView
			status string
		)
		if err := rows.Scan(&v.OrderID, &v.UserID, &v.CustomerName, &v.Total, &status, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Status = Status(status)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ListItems(ctx context.Context, orderID int64) ([]ItemView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ip.quantidade, pr.nome_produto
		FROM itens_pedido ip
		JOIN produtos pr ON ip.id_produto = pr.id_produto
		WHERE ip.id_pedido = $1
		ORDER BY ip.id_item`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemView
	for rows.Next() {
		var it ItemView
		if err := rows.Scan(&it.Quantity, &it.ProductName); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetStatus(ctx context.Context, orderID int64) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status_pedido FROM pedidos WHERE id_pedido = $1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("orders: get status %d: %w", orderID, err)
	}
	return Status(s), nil
}

// UpdateStatus moves the order to `to` only while it is still in `from`, so
// two concurrent updates cannot both win.
func (r *Repo) UpdateStatus(ctx context.Context, orderID int64, from, to Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE pedidos SET status_pedido = $3
		WHERE id_pedido = $1 AND status_pedido = $2`, orderID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("orders: update status %d: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}
