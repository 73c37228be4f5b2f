package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/winside-retail/backoffice/internal/platform/httpx"
	"github.com/winside-retail/backoffice/internal/shared"
)

// IdempotencyKeyHeader carries the client retry key on adjustment requests.
const IdempotencyKeyHeader = "Idempotency-Key"

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/adjustments", h.Adjust)
	r.Get("/adjustments", h.ListAdjustments)
	r.Get("/low-stock", h.LowStock)
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var actorID int64
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		actorID, _ = strconv.ParseInt(sess.User(), 10, 64)
	}

	adj, err := h.service.Adjust(r.Context(), actorID, req, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		h.respondError(w, "adjust stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, adj)
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	var req ListAdjustmentsRequest
	req.ProductID, _ = strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, total, err := h.service.ListAdjustments(r.Context(), req)
	if err != nil {
		h.respondError(w, "list adjustments", err)
		return
	}
	if result == nil {
		result = []Adjustment{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"adjustments": result,
		"pagination":  shared.NewPagination(max(req.Page, 1), req.PerPage, total),
	})
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.LowStock(r.Context(), r.URL.Query().Get("brand"))
	if err != nil {
		h.respondError(w, "low stock report", err)
		return
	}
	if result == nil {
		result = []LowStockItem{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "stock level not found")
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", "this adjustment was already processed")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
