package catalog

type Product struct {
	ID           int64   `json:"id_produto"`
	Name         string  `json:"nome_produto"`
	Description  string  `json:"descricao"`
	Price        float64 `json:"preco"`
	Stock        int     `json:"quantidade_estoque"`
	CategoryID   *int64  `json:"id_categoria"`
	CategoryName *string `json:"nome_categoria"`
	ImageURL     string  `json:"imagem_url"`
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name        string  `json:"nome_produto" validate:"required"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" validate:"required,gt=0"`
	Stock       *int    `json:"quantidade_estoque" validate:"required,gte=0"`
	CategoryID  *int64  `json:"id_categoria"`
	ImageURL    string  `json:"imagem_url"`
}

type Filter struct {
	Category string
	Name     string
}
