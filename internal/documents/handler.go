package documents

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

// Handler manages document endpoints.
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

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/documents", h.list)
	r.Post("/documents", h.create)
	r.Get("/documents/{id}", h.show)
	r.Delete("/documents/{id}", h.remove)

	r.Post("/documents/{id}/lines", h.addLines)
	r.Patch("/documents/{id}/lines/{uid}", h.updateLine)
	r.Delete("/documents/{id}/lines/{uid}", h.removeLine)

	r.Put("/documents/{id}/discount", h.setDiscount)
	r.Put("/documents/{id}/payment", h.setPayment)
	r.Put("/documents/{id}/fully-paid", h.setFullyPaid)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	partyID, _ := strconv.ParseInt(q.Get("party_id"), 10, 64)

	req := ListDocumentsRequest{
		Kind:    Kind(q.Get("kind")),
		PartyID: partyID,
		Page:    page,
		PerPage: perPage,
	}
	if v := q.Get("from"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			req.From = ts
		}
	}
	if v := q.Get("to"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			req.To = ts
		}
	}

	docs, pagination, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": docs, "pagination": pagination})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create document", slog.String("kind", string(req.Kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addLines(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req AddLinesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.AddLines(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Line", "uid must be a UUID")
		return
	}

	var req UpdateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.UpdateLine(r.Context(), id, uid, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Line", "uid must be a UUID")
		return
	}

	doc, err := h.service.RemoveLine(r.Context(), id, uid)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req SetDiscountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.SetDiscount(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req SetPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.SetPayment(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) setFullyPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req SetFullyPaidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}

	doc, err := h.service.SetFullyPaid(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) docID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return 0, false
	}
	return id, true
}
