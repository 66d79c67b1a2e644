package catalog

import "errors"

var (
	ErrNotFound          = errors.New("produto não encontrado")
	ErrInsufficientStock = errors.New("Estoque insuficiente.")
	ErrStockNotAdjusted  = errors.New("Não foi possível atualizar o estoque do produto ou produto não encontrado.")
	ErrReferenced        = errors.New("Não é possível excluir o produto pois ele está associado a um ou mais pedidos.")
)
