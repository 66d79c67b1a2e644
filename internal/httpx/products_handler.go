package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-econstore/internal/catalog"
	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProductStore interface {
	List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	Update(ctx context.Context, id int64, in catalog.ProductInput) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ProductsHandler struct {
	Store    ProductStore
	validate *validator.Validate
}

func NewProductsHandler(s ProductStore) *ProductsHandler {
	return &ProductsHandler{Store: s, validate: validator.New()}
}

const msgProductFields = "Nome do produto, preço e quantidade em estoque são obrigatórios."

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	f := catalog.Filter{
		Category: r.URL.Query().Get("categoria"),
		Name:     r.URL.Query().Get("nome_produto"),
	}
	ps, err := h.Store.List(r.Context(), f)
	if err != nil {
		logging.FromContext(r.Context()).Error("list products failed", "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar buscar produtos.")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		message(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	p, err := h.Store.GetByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		message(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("get product failed", "product_id", id, "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar buscar produto.")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil || h.validate.Struct(in) != nil {
		message(w, http.StatusBadRequest, msgProductFields)
		return
	}
	p, err := h.Store.Create(r.Context(), in)
	if err != nil {
		logging.FromContext(r.Context()).Error("create product failed", "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar criar produto.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Produto criado com sucesso!", "product": p})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		message(w, http.StatusNotFound, "Produto não encontrado para atualização.")
		return
	}
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil || h.validate.Struct(in) != nil {
		message(w, http.StatusBadRequest, msgProductFields)
		return
	}
	found, err := h.Store.Update(r.Context(), id, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("update product failed", "product_id", id, "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar atualizar produto.")
		return
	}
	if !found {
		message(w, http.StatusNotFound, "Produto não encontrado para atualização.")
		return
	}
	message(w, http.StatusOK, "Produto atualizado com sucesso!")
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		message(w, http.StatusNotFound, "Produto não encontrado para exclusão.")
		return
	}
	found, err := h.Store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrReferenced):
		message(w, http.StatusBadRequest, err.Error())
	case err != nil:
		logging.FromContext(r.Context()).Error("delete product failed", "product_id", id, "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar excluir produto.")
	case !found:
		message(w, http.StatusNotFound, "Produto não encontrado para exclusão.")
	default:
		message(w, http.StatusOK, "Produto excluído com sucesso!")
	}
}
