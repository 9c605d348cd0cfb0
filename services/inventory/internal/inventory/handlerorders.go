package inventory

import (
	"errors"
	"net/http"

	"github.com/appetiteclub/pantry/pkg/enums/orderstatus"
	"github.com/aquamarinepk/aqm"
)

type OrderCreateRequest struct {
	Customer string      `json:"customer"`
	Items    []OrderItem `json:"items"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()

	log := h.log(r)

	req, ok := decodePayload[OrderCreateRequest](w, r, log)
	if !ok {
		return
	}

	if err := validateOrderItems(req.Items); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := NewOrder(req.Customer, req.Items...)
	if err := h.orderRepo.Create(r.Context(), order); err != nil {
		log.Error("cannot create order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	links := aqm.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, order, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var orders []*Order
	var err error

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := orderstatus.ByName(statusParam)
		if status == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		orders, err = h.orderRepo.ListByStatus(ctx, status.Code())
	} else {
		orders, err = h.orderRepo.List(ctx)
	}
	if err != nil {
		log.Error("cannot list orders", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}

	aqm.RespondCollection(w, orders, "order")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if order == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	aqm.RespondSuccess(w, order, aqm.RESTfulLinksFor(order)...)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete order")
		return
	}
	if order == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.orderRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PayOrder settles a pending order and deducts its ingredients from stock.
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PayOrder")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	result, err := h.reconciler.PayOrder(r.Context(), id)
	if err != nil {
		h.respondPaymentError(w, log.With("order_id", id.String()), err)
		return
	}

	log.Info("order paid", "order_id", id.String(), "deductions", len(result.Deductions))
	aqm.RespondSuccess(w, result, aqm.RESTfulLinksFor(result.Order)...)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not cancel order")
		return
	}
	if order == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := order.Cancel(); err != nil {
		if errors.Is(err, ErrAlreadyPaid) || errors.Is(err, ErrOrderNotPayable) {
			aqm.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot cancel order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not cancel order")
		return
	}

	if err := h.orderRepo.Save(ctx, order); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			aqm.RespondError(w, http.StatusConflict, "Order changed while cancelling")
			return
		}
		log.Error("cannot save order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not cancel order")
		return
	}

	aqm.RespondSuccess(w, order, aqm.RESTfulLinksFor(order)...)
}
