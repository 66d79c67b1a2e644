package orders

type Status string

const (
	StatusPending   Status = "Pendente"
	StatusPaid      Status = "Pago"
	StatusShipped   Status = "Enviado"
	StatusDelivered Status = "Entregue"
	StatusCancelled Status = "Cancelado"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusCancelled: true},
	StatusPaid:      {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order in from may move to to. Orders are
// created with whatever label checkout sends; only later updates are checked.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
