package inventory

import (
	"errors"
	"net/http"

	"github.com/aquamarinepk/aqm"
)

type InventoryItemCreateRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unit_cost"`
}

type InventoryItemUpdateRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	UnitCost *float64 `json:"unit_cost,omitempty"`
}

type InventoryDecrementRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateInventoryItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := decodePayload[InventoryItemCreateRequest](w, r, log)
	if !ok {
		return
	}

	item := &InventoryItem{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		UnitCost: req.UnitCost,
	}
	if err := item.Validate(); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.inventoryRepo.FindByName(ctx, item.Name)
	if err != nil {
		log.Error("cannot check inventory item name", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create inventory item")
		return
	}
	if existing != nil {
		aqm.RespondError(w, http.StatusConflict, "Inventory item already exists")
		return
	}

	item.BeforeCreate()
	if err := h.inventoryRepo.Create(ctx, item); err != nil {
		log.Error("cannot create inventory item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create inventory item")
		return
	}

	links := aqm.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item, links...)
}

func (h *Handler) ListInventoryItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListInventoryItems")
	defer finish()

	log := h.log(r)

	items, err := h.inventoryRepo.List(r.Context())
	if err != nil {
		log.Error("cannot list inventory items", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list inventory items")
		return
	}

	aqm.RespondCollection(w, items, "inventory-item")
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetInventoryItem")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.inventoryRepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load inventory item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Inventory item not found")
		return
	}

	aqm.RespondSuccess(w, item, aqm.RESTfulLinksFor(item)...)
}

func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateInventoryItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := decodePayload[InventoryItemUpdateRequest](w, r, log)
	if !ok {
		return
	}

	item, err := h.inventoryRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update inventory item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Inventory item not found")
		return
	}

	expected := item.Quantity

	if req.Name != nil && NameKey(*req.Name) != item.NameKey {
		clash, err := h.inventoryRepo.FindByName(ctx, *req.Name)
		if err != nil {
			log.Error("cannot check inventory item name", "error", err)
			aqm.RespondError(w, http.StatusInternalServerError, "Could not update inventory item")
			return
		}
		if clash != nil {
			aqm.RespondError(w, http.StatusConflict, "Inventory item already exists")
			return
		}
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}

	if err := item.Validate(); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item.BeforeUpdate()
	if err := h.inventoryRepo.Save(ctx, item, expected); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			aqm.RespondError(w, http.StatusConflict, "Inventory item changed while updating")
			return
		}
		log.Error("cannot save inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update inventory item")
		return
	}

	aqm.RespondSuccess(w, item, aqm.RESTfulLinksFor(item)...)
}

func (h *Handler) DecrementInventoryItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DecrementInventoryItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := decodePayload[InventoryDecrementRequest](w, r, log)
	if !ok {
		return
	}
	if !(req.Amount > 0) {
		aqm.RespondError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	item, err := h.inventoryRepo.Decrement(ctx, id, req.Amount)
	if err != nil {
		log.Error("cannot decrement inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not decrement inventory item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Inventory item not found")
		return
	}

	aqm.RespondSuccess(w, item, aqm.RESTfulLinksFor(item)...)
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteInventoryItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.inventoryRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete inventory item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Inventory item not found")
		return
	}

	if err := h.inventoryRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete inventory item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
