package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/ariefcatur/go-econstore/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, lines []orders.CartLine, total float64, status orders.Status, userID int64) (orders.Created, error)
}

type OrderLister interface {
	ListAll(ctx context.Context) ([]orders.OrderView, error)
}

type OrderStatuses interface {
	Get(ctx context.Context, orderID int64) (orders.Status, error)
	Update(ctx context.Context, orderID int64, to orders.Status) (orders.Status, error)
}

type OrdersHandler struct {
	Creator  OrderCreator
	Query    OrderLister
	Statuses OrderStatuses
}

func NewOrdersHandler(c OrderCreator, q OrderLister, s OrderStatuses) *OrdersHandler {
	return &OrdersHandler{Creator: c, Query: q, Statuses: s}
}

// createOrderReq is the checkout payload. total and id_usuario arrive as
// numbers or strings.
type createOrderReq struct {
	Products []orders.CartLine `json:"produtos"`
	Total    any               `json:"total"`
	Status   string            `json:"status"`
	UserID   any               `json:"id_usuario"`
}

func orderFailed(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"erro":     "Erro ao criar pedido",
		"detalhes": err.Error(),
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := decodeJSON(r, &req); err != nil {
		orderFailed(w, err)
		return
	}
	total, err := cast.ToFloat64E(req.Total)
	if err != nil {
		orderFailed(w, err)
		return
	}
	userID, err := cast.ToInt64E(req.UserID)
	if err != nil || userID == 0 {
		c, ok := ClaimsFromContext(r.Context())
		if !ok {
			orderFailed(w, errors.New("usuário do pedido não informado"))
			return
		}
		userID = c.UserID
	}
	status := orders.Status(req.Status)
	if status == "" {
		status = orders.StatusPending
	}

	created, err := h.Creator.CreateOrder(r.Context(), req.Products, total, status, userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("create order failed", "user_id", userID, "error", err)
		orderFailed(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.Query.ListAll(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list orders failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"mensagem": "Erro ao buscar pedidos"})
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		message(w, http.StatusBadRequest, "ID de pedido inválido.")
		return
	}
	st, err := h.Statuses.Get(r.Context(), id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		message(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("get order status failed", "order_id", id, "error", err)
		message(w, http.StatusInternalServerError, "Erro ao buscar status do pedido.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]orders.Status{"status": st})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		message(w, http.StatusBadRequest, "ID de pedido inválido.")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		message(w, http.StatusBadRequest, "Status é obrigatório.")
		return
	}

	st, err := h.Statuses.Update(r.Context(), id, orders.Status(body.Status))
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error(), "status": string(st)})
	case err != nil:
		logging.FromContext(r.Context()).Error("update order status failed", "order_id", id, "error", err)
		message(w, http.StatusInternalServerError, "Erro ao atualizar status do pedido.")
	default:
		writeJSON(w, http.StatusOK, map[string]orders.Status{"status": st})
	}
}
