package parties

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

// Handler manages party and business-profile endpoints.
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

// MountRoutes registers party routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/parties", h.list)
	r.Get("/parties/{id}", h.show)
	r.Post("/parties", h.create)
	r.Get("/profile", h.showProfile)
	r.Patch("/profile", h.updateProfile)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	parties, err := h.service.List(r.Context(), PartyKind(r.URL.Query().Get("kind")))
	if err != nil {
		h.logger.Error("list parties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"parties": parties})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return
	}
	party, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, party)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	party, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create party", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, party)
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), req)
	if err != nil {
		h.logger.Error("update business profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
