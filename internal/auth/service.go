package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type UserStore interface {
	Create(ctx context.Context, u User) (int64, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

type Service struct {
	Users    UserStore
	Tokens   *Tokens
	validate *validator.Validate
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{Users: users, Tokens: tokens, validate: validator.New()}
}

type LoginResult struct {
	Token string
	User  User
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return 0, ErrMissingFields
				}
			}
		}
		return 0, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return 0, err
	}
	role := in.Role
	if role == "" {
		role = RoleCustomer
	}
	id, err := s.Users.Create(ctx, User{
		FullName:     in.FullName,
		CPF:          in.CPF,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Address: Address{
			Street:     in.Street,
			Number:     in.Number,
			Complement: in.Complement,
			District:   in.District,
			City:       in.City,
			State:      in.State,
			ZIP:        in.ZIP,
		},
	})
	if err != nil {
		l.Warn("register_error", "error", err)
		return 0, err
	}
	return id, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")
	if email == "" || password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			l.Error("login failed", "error", err)
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		l.Warn("login failed", "user_id", u.ID, "reason", "wrong password")
		return LoginResult{}, ErrWrongPassword
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: u}, nil
}

// LoginEmployee is Login restricted to shopkeepers. Every credential problem
// is reported the same way.
func (s *Service) LoginEmployee(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := s.Login(ctx, email, password)
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrWrongPassword), errors.Is(err, ErrMissingCredentials):
		return LoginResult{}, ErrInvalidCredentials
	case err != nil:
		return LoginResult{}, err
	case res.User.Role != RoleShopkeeper:
		return LoginResult{}, ErrInvalidCredentials
	}
	return res, nil
}
