package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-econstore/internal/auth"
	"github.com/ariefcatur/go-econstore/internal/catalog"
	"github.com/ariefcatur/go-econstore/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCreator struct {
	gotLines  []orders.CartLine
	gotTotal  float64
	gotStatus orders.Status
	gotUser   int64
	err       error
}

func (s *stubCreator) CreateOrder(_ context.Context, lines []orders.CartLine, total float64, status orders.Status, userID int64) (orders.Created, error) {
	s.gotLines, s.gotTotal, s.gotStatus, s.gotUser = lines, total, status, userID
	if s.err != nil {
		return orders.Created{}, s.err
	}
	return orders.Created{OrderID: 42, Status: status}, nil
}

type stubLister struct {
	views []orders.OrderView
	err   error
}

func (s *stubLister) ListAll(context.Context) ([]orders.OrderView, error) { return s.views, s.err }

type stubStatuses struct {
	current map[int64]orders.Status
}

func (s *stubStatuses) Get(_ context.Context, id int64) (orders.Status, error) {
	st, ok := s.current[id]
	if !ok {
		return "", orders.ErrOrderNotFound
	}
	return st, nil
}

func (s *stubStatuses) Update(_ context.Context, id int64, to orders.Status) (orders.Status, error) {
	from, ok := s.current[id]
	if !ok {
		return "", orders.ErrOrderNotFound
	}
	if !orders.CanTransition(from, to) {
		return from, orders.ErrInvalidTransition
	}
	s.current[id] = to
	return to, nil
}

type stubProducts struct {
	items     map[int64]catalog.Product
	gotFilter catalog.Filter
	delErr    error
}

func (s *stubProducts) List(_ context.Context, f catalog.Filter) ([]catalog.Product, error) {
	s.gotFilter = f
	out := []catalog.Product{}
	for _, p := range s.items {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (catalog.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (s *stubProducts) Create(_ context.Context, in catalog.ProductInput) (catalog.Product, error) {
	p := catalog.Product{ID: int64(len(s.items) + 1), Name: in.Name, Price: in.Price, Stock: *in.Stock}
	s.items[p.ID] = p
	return p, nil
}

func (s *stubProducts) Update(_ context.Context, id int64, in catalog.ProductInput) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	s.items[id] = catalog.Product{ID: id, Name: in.Name, Price: in.Price, Stock: *in.Stock}
	return true, nil
}

func (s *stubProducts) Delete(_ context.Context, id int64) (bool, error) {
	if s.delErr != nil {
		return false, s.delErr
	}
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

type stubAuth struct{ gotRole *string }

func (s stubAuth) Register(_ context.Context, in auth.RegisterInput) (int64, error) {
	if s.gotRole != nil {
		*s.gotRole = in.Role
	}
	switch in.Email {
	case "":
		return 0, auth.ErrMissingFields
	case "taken@example.com":
		return 0, auth.ErrEmailTaken
	}
	return 9, nil
}

func (stubAuth) Login(_ context.Context, email, password string) (auth.LoginResult, error) {
	if password != "ok" {
		return auth.LoginResult{}, auth.ErrWrongPassword
	}
	return auth.LoginResult{Token: "tok", User: auth.User{ID: 1, Email: email, Role: auth.RoleCustomer}}, nil
}

func (stubAuth) LoginEmployee(context.Context, string, string) (auth.LoginResult, error) {
	return auth.LoginResult{}, auth.ErrInvalidCredentials
}

type fixture struct {
	router   http.Handler
	gotRole  string
	tokens   *auth.Tokens
	creator  *stubCreator
	lister   *stubLister
	statuses *stubStatuses
	products *stubProducts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens:   auth.NewTokens("test-secret"),
		creator:  &stubCreator{},
		lister:   &stubLister{},
		statuses: &stubStatuses{current: map[int64]orders.Status{7: orders.StatusPending}},
		products: &stubProducts{items: map[int64]catalog.Product{1: {ID: 1, Name: "Caneca", Price: 20, Stock: 3}}},
	}
	f.router = NewRouter(Deps{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens:   f.tokens,
		Auth:     &AuthHandler{Svc: stubAuth{gotRole: &f.gotRole}},
		Products: NewProductsHandler(f.products),
		Orders:   NewOrdersHandler(f.creator, f.lister, f.statuses),
	})
	return f
}

func (f *fixture) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := f.tokens.Issue(auth.User{ID: 5, Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestCreateOrder_Created(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{
		"produtos": []map[string]any{
			{"id": 1, "quantidade": "2", "preco": 10.5, "nome_produto": "Caneca"},
		},
		"total":      "21",
		"status":     "Pendente",
		"id_usuario": 3,
	}

	rec := f.do(t, http.MethodPost, "/api/pedidos", f.token(t, auth.RoleCustomer), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode(t, rec)
	assert.EqualValues(t, 42, got["id_pedido"])
	assert.Equal(t, "Pendente", got["status"])

	assert.Equal(t, 21.0, f.creator.gotTotal)
	assert.EqualValues(t, 3, f.creator.gotUser)
	require.Len(t, f.creator.gotLines, 1)
	assert.EqualValues(t, 1, f.creator.gotLines[0].ProductID)
	assert.Equal(t, "2", f.creator.gotLines[0].Quantity)
}

func TestCreateOrder_DefaultsUserAndStatus(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"produtos": []map[string]any{{"id": 1, "quantidade": 1, "preco": 20}}, "total": 20}

	rec := f.do(t, http.MethodPost, "/api/pedidos", f.token(t, auth.RoleCustomer), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 5, f.creator.gotUser)
	assert.Equal(t, orders.StatusPending, f.creator.gotStatus)
}

func TestCreateOrder_FailureIs500WithDetails(t *testing.T) {
	f := newFixture(t)
	f.creator.err = &orders.TxError{Cause: &orders.ProductNotFoundError{ID: 99}, Cancelled: true}
	body := map[string]any{"produtos": []map[string]any{{"id": 99, "quantidade": 1, "preco": 1}}, "total": 1}

	rec := f.do(t, http.MethodPost, "/api/pedidos", f.token(t, auth.RoleCustomer), body)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Erro ao criar pedido", got["erro"])
	assert.Equal(t, "Produto com ID 99 não encontrado. Transação cancelada.", got["detalhes"])
}

func TestCreateOrder_EmptyCartReachesCoordinator(t *testing.T) {
	f := newFixture(t)
	f.creator.err = &orders.TxError{Cause: orders.ErrEmptyCart, Cancelled: true}

	rec := f.do(t, http.MethodPost, "/api/pedidos", f.token(t, auth.RoleCustomer), map[string]any{"produtos": []any{}, "total": 0})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Erro ao criar pedido", got["erro"])
	assert.Equal(t, "O pedido precisa de ao menos um produto. Transação cancelada.", got["detalhes"])
	assert.NotNil(t, f.creator.gotLines)
	assert.Empty(t, f.creator.gotLines)
}

func TestCreateOrder_RequiresToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/pedidos", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/pedidos", "not-a-jwt", map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token inválido ou expirado.", decode(t, rec)["message"])
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	f.lister.views = []orders.OrderView{{OrderID: 1, Items: []orders.ItemView{}}}

	rec := f.do(t, http.MethodGet, "/api/ver-pedidos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, []any{}, views[0]["itens"])

	f.lister.err = errors.New("boom")
	rec = f.do(t, http.MethodGet, "/api/ver-pedidos", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erro ao buscar pedidos", decode(t, rec)["mensagem"])
}

func TestOrderStatusRoutes(t *testing.T) {
	f := newFixture(t)
	customer := f.token(t, auth.RoleCustomer)
	shop := f.token(t, auth.RoleShopkeeper)

	rec := f.do(t, http.MethodGet, "/api/pedidos/7/status", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pendente", decode(t, rec)["status"])

	rec = f.do(t, http.MethodGet, "/api/pedidos/8/status", customer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/pedidos/7/status", customer, map[string]string{"status": "Pago"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/pedidos/7/status", shop, map[string]string{"status": "Pago"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pago", decode(t, rec)["status"])

	rec = f.do(t, http.MethodPatch, "/api/pedidos/7/status", shop, map[string]string{"status": "Pendente"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/pedidos/7/status", shop, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts(t *testing.T) {
	f := newFixture(t)
	shop := f.token(t, auth.RoleShopkeeper)

	rec := f.do(t, http.MethodGet, "/api/products?categoria=Casa&nome_produto=can", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.Filter{Category: "Casa", Name: "can"}, f.products.gotFilter)

	rec = f.do(t, http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Caneca", decode(t, rec)["nome_produto"])

	rec = f.do(t, http.MethodGet, "/api/products/2", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	newProduct := map[string]any{"nome_produto": "Prato", "preco": 12.5, "quantidade_estoque": 0}
	rec = f.do(t, http.MethodPost, "/api/products", f.token(t, auth.RoleCustomer), newProduct)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/products", "", newProduct)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/products", shop, newProduct)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Produto criado com sucesso!", decode(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/api/products", shop, map[string]any{"nome_produto": "Sem preço"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgProductFields, decode(t, rec)["message"])

	rec = f.do(t, http.MethodPut, "/api/products/99", shop, newProduct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodPut, "/api/products/1", shop, newProduct)
	assert.Equal(t, http.StatusOK, rec.Code)

	f.products.delErr = catalog.ErrReferenced
	rec = f.do(t, http.MethodDelete, "/api/products/1", shop, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, catalog.ErrReferenced.Error(), decode(t, rec)["message"])

	f.products.delErr = nil
	rec = f.do(t, http.MethodDelete, "/api/products/1", shop, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/products/1", shop, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "new@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 9, decode(t, rec)["userId"])

	rec = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "taken@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@example.com", "senha": "ok"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "tok", got["token"])
	assert.Equal(t, "cliente", got["user"].(map[string]any)["tipo_usuario"])

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@example.com", "senha": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/login-funcionario", "", map[string]any{"email": "a@example.com", "senha": "ok"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	got = decode(t, rec)
	assert.Equal(t, false, got["sucesso"])
	assert.Equal(t, "Email ou senha inválidos", got["mensagem"])
}

func TestRegister_PublicRouteAlwaysCreatesCustomers(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "new@example.com", "tipo_usuario": "lojista"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, auth.RoleCustomer, f.gotRole)

	body := map[string]any{"email": "staff@example.com", "tipo_usuario": "lojista"}
	rec = f.do(t, http.MethodPost, "/api/auth/register-funcionario", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/auth/register-funcionario", f.token(t, auth.RoleCustomer), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register-funcionario", f.token(t, auth.RoleShopkeeper), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, auth.RoleShopkeeper, f.gotRole)
}

func TestHealthzAndSecureHeaders(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = f.do(t, http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
