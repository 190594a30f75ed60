package taxrates

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

// Handler manages tax-rate endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers tax-rate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/tax-rates", h.list)
	r.Get("/tax-rates/{id}", h.show)
	r.Post("/tax-rates", h.create)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return
	}
	rate, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rate)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list tax rates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tax_rates": rates})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaxRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rate, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create tax rate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rate)
}
