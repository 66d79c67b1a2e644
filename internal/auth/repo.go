package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-econstore/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type Repo struct{ DB postgres.Querier }

func (r *Repo) Create(ctx context.Context, u User) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO usuarios
			(nome_completo, cpf, telefone, email, senha, tipo_usuario,
			 endereco_rua, endereco_numero, endereco_complemento, endereco_bairro,
			 endereco_cidade, endereco_estado, endereco_cep)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id_usuario`,
		u.FullName, u.CPF, u.Phone, u.Email, u.PasswordHash, u.Role,
		u.Address.Street, u.Address.Number, u.Address.Complement, u.Address.District,
		u.Address.City, u.Address.State, u.Address.ZIP,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch {
			case strings.Contains(pgErr.ConstraintName, "email"):
				return 0, ErrEmailTaken
			case strings.Contains(pgErr.ConstraintName, "cpf"):
				return 0, ErrCPFTaken
			}
		}
		return 0, fmt.Errorf("auth: create user: %w", err)
	}
	return id, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id_usuario, nome_completo, cpf, COALESCE(telefone, ''), email, senha, tipo_usuario, data_cadastro
		FROM usuarios WHERE email = $1`, email,
	).Scan(&u.ID, &u.FullName, &u.CPF, &u.Phone, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("auth: find user: %w", err)
	}
	return u, nil
}
