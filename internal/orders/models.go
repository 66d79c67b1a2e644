package orders

import "time"

type Order struct {
	ID        int64
	UserID    int64
	Total     float64
	Status    Status // lihat status.go
	CreatedAt time.Time
}

// OrderItem keeps the unit price the customer saw when checking out, not
// the current catalog price.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice float64
}

// CartLine is one line of the checkout payload. Quantity and UnitPrice come
// from the client either as JSON numbers or strings and are coerced when the
// order is created.
type CartLine struct {
	ProductID int64  `json:"id"`
	Quantity  any    `json:"quantidade"`
	UnitPrice any    `json:"preco"`
	Name      string `json:"nome_produto,omitempty"`
}

type Created struct {
	OrderID int64  `json:"id_pedido"`
	Status  Status `json:"status"`
}

type OrderView struct {
	OrderID      int64      `json:"id_pedido"`
	UserID       int64      `json:"id_usuario"`
	CustomerName string     `json:"nome_completo"`
	Total        float64    `json:"valor_total"`
	Status       Status     `json:"status_pedido"`
	CreatedAt    time.Time  `json:"data_pedido"`
	Items        []ItemView `json:"itens"`
}

type ItemView struct {
	Quantity    int    `json:"quantidade"`
	ProductName string `json:"nome_produto"`
}
