package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-econstore/internal/catalog"
	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/spf13/cast"
)

type ProductStore interface {
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
	AdjustStock(ctx context.Context, q postgres.Querier, id int64, delta int) error
}

// OrderWriter persists orders through the caller's transaction.
type OrderWriter interface {
	InsertOrder(ctx context.Context, q postgres.Querier, o Order) (int64, error)
	InsertItem(ctx context.Context, q postgres.Querier, it OrderItem) error
}

// Notifier is told about every committed order.
type Notifier interface {
	OrderCreated(ctx context.Context, o Order, items []OrderItem)
}

type Coordinator struct {
	DB       postgres.Provider
	Products ProductStore
	Orders   OrderWriter
	Notifier Notifier // optional
}

type preparedLine struct {
	productID int64
	qty       int
	price     float64
}

// CreateOrder places an order for lines in a single transaction: every line
// must ask for a positive quantity and is checked against current stock first, then the order row is written and
// each line decrements stock and records its item in input order. Any
// failure rolls everything back and comes out as a *TxError.
func (c *Coordinator) CreateOrder(ctx context.Context, lines []CartLine, total float64, status Status, userID int64) (Created, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create", "user_id", userID)
	if len(lines) == 0 {
		return Created{}, cancelled(ErrEmptyCart)
	}

	conn, err := c.DB.Acquire(ctx)
	if err != nil {
		l.Error("acquire connection failed", "error", err)
		return Created{}, fmt.Errorf("orders: acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		l.Error("begin tx failed", "error", err)
		return Created{}, cancelled(err)
	}

	order, items, err := c.place(ctx, tx, lines, total, status, userID)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			l.Warn("rollback failed", "error", rbErr)
		}
		l.Warn("order cancelled", "error", err)
		return Created{}, cancelled(err)
	}
	// a failed commit has already been rolled back by the server
	if err := tx.Commit(ctx); err != nil {
		l.Warn("commit failed", "order_id", order.ID, "error", err)
		return Created{}, cancelled(err)
	}

	l.Info("order created", "order_id", order.ID, "items", len(items))
	if c.Notifier != nil {
		c.Notifier.OrderCreated(ctx, order, items)
	}
	return Created{OrderID: order.ID, Status: order.Status}, nil
}

func (c *Coordinator) place(ctx context.Context, tx postgres.Tx, lines []CartLine, total float64, status Status, userID int64) (Order, []OrderItem, error) {
	prepared, err := c.precheck(ctx, lines)
	if err != nil {
		return Order{}, nil, err
	}

	order := Order{UserID: userID, Total: total, Status: status}
	order.ID, err = c.Orders.InsertOrder(ctx, tx, order)
	if err != nil {
		return Order{}, nil, err
	}

	// strictly sequential, in cart order
	items := make([]OrderItem, 0, len(prepared))
	for _, p := range prepared {
		if err := c.Products.AdjustStock(ctx, tx, p.productID, -p.qty); err != nil {
			return Order{}, nil, err
		}
		it := OrderItem{OrderID: order.ID, ProductID: p.productID, Quantity: p.qty, UnitPrice: p.price}
		if err := c.Orders.InsertItem(ctx, tx, it); err != nil {
			return Order{}, nil, err
		}
		items = append(items, it)
	}
	return order, items, nil
}

// precheck reads every product before anything is written. It is optimistic:
// the conditional update in AdjustStock stays the authoritative guard.
func (c *Coordinator) precheck(ctx context.Context, lines []CartLine) ([]preparedLine, error) {
	out := make([]preparedLine, 0, len(lines))
	for _, line := range lines {
		qty, err := cast.ToIntE(line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("quantidade inválida para o produto %d: %w", line.ProductID, err)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("quantidade inválida para o produto %d: %d", line.ProductID, qty)
		}
		price, err := cast.ToFloat64E(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("preço inválido para o produto %d: %w", line.ProductID, err)
		}

		p, err := c.Products.GetByID(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &ProductNotFoundError{ID: line.ProductID}
		}
		if err != nil {
			return nil, err
		}
		if qty > p.Stock {
			return nil, &InsufficientStockError{ProductName: p.Name, Available: p.Stock, Requested: qty}
		}
		out = append(out, preparedLine{productID: line.ProductID, qty: qty, price: price})
	}
	return out, nil
}
