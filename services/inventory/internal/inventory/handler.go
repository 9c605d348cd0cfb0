package inventory

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger        aqm.Logger
	config        *aqm.Config
	tlm           *telemetry.HTTP
	inventoryRepo InventoryRepo
	recipeRepo    RecipeRepo
	orderRepo     OrderRepo
	reconciler    *Reconciler
}

type HandlerDeps struct {
	Repos      Repos
	Reconciler *Reconciler
}

func NewHandler(hd HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return &Handler{
		logger:        logger,
		config:        config,
		tlm:           telemetry.NewHTTP(),
		inventoryRepo: hd.Repos.InventoryRepo,
		recipeRepo:    hd.Repos.RecipeRepo,
		orderRepo:     hd.Repos.OrderRepo,
		reconciler:    hd.Reconciler,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/", h.CreateInventoryItem)
		r.Get("/", h.ListInventoryItems)
		r.Get("/{id}", h.GetInventoryItem)
		r.Put("/{id}", h.UpdateInventoryItem)
		r.Patch("/{id}", h.UpdateInventoryItem)
		r.Patch("/{id}/decrement", h.DecrementInventoryItem)
		r.Delete("/{id}", h.DeleteInventoryItem)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Post("/", h.CreateRecipe)
		r.Get("/", h.ListRecipes)
		r.Get("/{id}", h.GetRecipe)
		r.Put("/{id}", h.UpdateRecipe)
		r.Patch("/{id}", h.UpdateRecipe)
		r.Delete("/{id}", h.DeleteRecipe)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Delete("/{id}", h.DeleteOrder)
		r.Post("/{id}/pay", h.PayOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func decodePayload[T any](w http.ResponseWriter, r *http.Request, log aqm.Logger) (T, bool) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return req, false
	}

	return req, true
}

// paymentStatus maps engine errors to HTTP status codes.
func paymentStatus(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrOrderNotPayable),
		errors.Is(err, ErrInvalidOrderItem),
		errors.Is(err, ErrInventoryItemNotFound),
		errors.Is(err, ErrUnsupportedConversion),
		errors.Is(err, ErrMissingUnit),
		errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondPaymentError(w http.ResponseWriter, log aqm.Logger, err error) {
	status := paymentStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("payment failed", "error", err)
		aqm.RespondError(w, status, "Could not process payment")
		return
	}

	log.Info("payment rejected", "status", status, "reason", err.Error())
	aqm.RespondError(w, status, err.Error())
}
