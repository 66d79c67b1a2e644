package orders

import (
	"errors"
	"fmt"
)

// CancelledMarker is appended once to the message of every failed checkout.
const CancelledMarker = "Transação cancelada."

var (
	ErrOrderNotFound     = errors.New("pedido não encontrado")
	ErrInvalidTransition = errors.New("transição de status inválida")
	ErrEmptyCart         = errors.New("O pedido precisa de ao menos um produto.")
)

type ProductNotFoundError struct{ ID int64 }

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Produto com ID %d não encontrado.", e.ID)
}

type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para o produto \"%s\". Disponível: %d, solicitado: %d",
		e.ProductName, e.Available, e.Requested)
}

// TxError is returned by CreateOrder for every failure that happened once the
// transaction was opened. The marker is rendered only by Error, so wrapping the
// same failure again never repeats it.
type TxError struct {
	Cause     error
	Cancelled bool
}

func (e *TxError) Error() string {
	if !e.Cancelled {
		return e.Cause.Error()
	}
	return e.Cause.Error() + " " + CancelledMarker
}

func (e *TxError) Unwrap() error { return e.Cause }

func cancelled(err error) error {
	var txErr *TxError
	if errors.As(err, &txErr) && txErr.Cancelled {
		return err
	}
	return &TxError{Cause: err, Cancelled: true}
}
