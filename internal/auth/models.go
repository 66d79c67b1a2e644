package auth

import "time"

const (
	RoleCustomer   = "cliente"
	RoleShopkeeper = "lojista"
)

type User struct {
	ID           int64     `json:"id_usuario"`
	FullName     string    `json:"nome_completo"`
	CPF          string    `json:"cpf,omitempty"`
	Phone        string    `json:"telefone,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"tipo_usuario"`
	Address      Address   `json:"endereco"`
	CreatedAt    time.Time `json:"data_cadastro"`
}

type Address struct {
	Street     string `json:"endereco_rua,omitempty"`
	Number     string `json:"endereco_numero,omitempty"`
	Complement string `json:"endereco_complemento,omitempty"`
	District   string `json:"endereco_bairro,omitempty"`
	City       string `json:"endereco_cidade,omitempty"`
	State      string `json:"endereco_estado,omitempty"`
	ZIP        string `json:"endereco_cep,omitempty"`
}

type RegisterInput struct {
	FullName string `json:"nome_completo" validate:"required"`
	CPF      string `json:"cpf" validate:"required"`
	Phone    string `json:"telefone"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
	Role     string `json:"tipo_usuario" validate:"omitempty,oneof=cliente lojista"`

	Street     string `json:"endereco_rua"`
	Number     string `json:"endereco_numero"`
	Complement string `json:"endereco_complemento"`
	District   string `json:"endereco_bairro"`
	City       string `json:"endereco_cidade"`
	State      string `json:"endereco_estado"`
	ZIP        string `json:"endereco_cep"`
}
