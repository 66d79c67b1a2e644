package auth

import "errors"

var (
	ErrMissingFields      = errors.New("Nome completo, CPF, e-mail e senha são obrigatórios.")
	ErrInvalidInput       = errors.New("Dados de cadastro inválidos.")
	ErrMissingCredentials = errors.New("E-mail e senha são obrigatórios.")
	ErrEmailTaken         = errors.New("E-mail já cadastrado.")
	ErrCPFTaken           = errors.New("CPF já cadastrado.")
	ErrUserNotFound       = errors.New("Credenciais inválidas (usuário não encontrado).")
	ErrWrongPassword      = errors.New("Credenciais inválidas (senha incorreta).")
	ErrInvalidCredentials = errors.New("Email ou senha inválidos")
	ErrInvalidToken       = errors.New("Token inválido ou expirado.")
)
