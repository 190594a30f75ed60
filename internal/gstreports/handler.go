package gstreports

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
	"github.com/khata-erp/khata-erp/internal/shared"
)

// Handler serves the GST report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/gst/rate-wise", h.rateWise)
	r.Get("/reports/gst/rate-wise.csv", h.rateWiseCSV)
	r.Get("/reports/gst/filing-codes", h.filingCodes)
	r.Get("/reports/gst/filing-codes.csv", h.filingCodesCSV)
}

func (h *Handler) rateWise(w http.ResponseWriter, r *http.Request) {
	req, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}
	summary, err := h.service.RateWise(r.Context(), req)
	if err != nil {
		h.logger.Error("rate-wise report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) rateWiseCSV(w http.ResponseWriter, r *http.Request) {
	req, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}
	summary, err := h.service.RateWise(r.Context(), req)
	if err != nil {
		h.logger.Error("rate-wise export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteRateWiseCSV(&buf, *summary); err != nil {
		h.logger.Error("rate-wise csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	streamCSV(w, h.logger, "gst-rate-wise", req, buf.Bytes())
}

func (h *Handler) filingCodes(w http.ResponseWriter, r *http.Request) {
	req, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}
	summary, err := h.service.FilingCodes(r.Context(), req)
	if err != nil {
		h.logger.Error("filing-code report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) filingCodesCSV(w http.ResponseWriter, r *http.Request) {
	req, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}
	summary, err := h.service.FilingCodes(r.Context(), req)
	if err != nil {
		h.logger.Error("filing-code export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteFilingCodeCSV(&buf, *summary); err != nil {
		h.logger.Error("filing-code csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	streamCSV(w, h.logger, "gst-filing-codes", req, buf.Bytes())
}

func streamCSV(w http.ResponseWriter, logger *slog.Logger, prefix string, req SummaryRequest, payload []byte) {
	filename := fmt.Sprintf("%s-%s-%s.csv", prefix,
		req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(payload); err != nil {
		logger.Error("stream csv", slog.Any("error", err))
	}
}

func parseWindow(r *http.Request) (SummaryRequest, error) {
	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		return SummaryRequest{}, fmt.Errorf("%w: from must be YYYY-MM-DD", shared.ErrValidation)
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		return SummaryRequest{}, fmt.Errorf("%w: to must be YYYY-MM-DD", shared.ErrValidation)
	}
	if to.Before(from) {
		return SummaryRequest{}, fmt.Errorf("%w: to precedes from", shared.ErrValidation)
	}
	req := SummaryRequest{From: from, To: to, Kind: q.Get("kind")}
	if req.Kind != "" && !validReportKind(req.Kind) {
		return SummaryRequest{}, fmt.Errorf("%w: unknown document kind %q", shared.ErrValidation, req.Kind)
	}
	return req, nil
}

func validReportKind(kind string) bool {
	switch kind {
	case "SALES_INVOICE", "PROFORMA_INVOICE", "PURCHASE_ORDER", "EXPENSE", "DEBIT_NOTE":
		return true
	}
	return false
}
