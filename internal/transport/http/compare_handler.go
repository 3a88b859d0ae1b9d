package http

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"revxcli/internal/dataprocessing"
	apierrors "revxcli/internal/errors"
	"revxcli/internal/exporter"
	"revxcli/internal/loader"
	"revxcli/internal/middleware"
	"revxcli/internal/services"
	"revxcli/pkg/contracts/domain"
)

// CompareHandler handles comparison requests.
type CompareHandler struct {
	service        *services.ComparisonService
	loader         *loader.Loader
	exporter       *exporter.ResultsExporter
	validate       *validator.Validate
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewCompareHandler creates a comparison handler.
func NewCompareHandler(service *services.ComparisonService, ld *loader.Loader, exp *exporter.ResultsExporter, maxUploadBytes int64, logger *slog.Logger) *CompareHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareHandler{
		service:        service,
		loader:         ld,
		exporter:       exp,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "compare_handler")),
	}
}

// Routes returns the comparison routes.
func (h *CompareHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Compare)
	r.Post("/export", h.ExportEnriched)
	r.Post("/export/summary", h.ExportSummary)
	r.Post("/rollup", h.Rollup)
	return r
}

// compareQuery carries the recognized query parameters of a comparison
// request.
type compareQuery struct {
	ThresholdPct float64 `validate:"gte=0"`
	Facet        *bool
	Brokers      []string
	PickedTypes  []string
	Company      string
}

func (h *CompareHandler) parseQuery(r *http.Request) (compareQuery, error) {
	q := compareQuery{}
	values := r.URL.Query()

	if raw := values.Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("threshold: %w", err)
		}
		q.ThresholdPct = v
	}
	if raw := values.Get("facet_by_picked_type"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("facet_by_picked_type: %w", err)
		}
		q.Facet = &v
	}
	if raw := values.Get("brokers"); raw != "" {
		q.Brokers = splitList(raw)
	}
	if raw := values.Get("picked_types"); raw != "" {
		q.PickedTypes = splitList(raw)
	}
	q.Company = values.Get("company")

	if err := h.validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// readTable materializes the uploaded table from either a multipart
// "file" field or a raw CSV request body.
func (h *CompareHandler) readTable(r *http.Request) (domain.Table, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)

	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return domain.Table{}, fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		return h.loader.ReadCSV(file, header.Filename)
	}

	return h.loader.ReadCSV(r.Body, "request body")
}

func (h *CompareHandler) run(r *http.Request) (*services.ComparisonResult, *compareQuery, *apierrors.APIError) {
	query, err := h.parseQuery(r)
	if err != nil {
		return nil, nil, apierrors.InvalidRequestWithError(err)
	}

	table, err := h.readTable(r)
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return nil, nil, apierrors.ErrPayloadTooLarge
		}
		return nil, nil, apierrors.InvalidRequestWithError(err)
	}

	result, err := h.service.Compare(r.Context(), table, services.CompareOptions{
		ThresholdPct:      query.ThresholdPct,
		FacetByPickedType: query.Facet,
		Filter: dataprocessing.Filter{
			Brokers:     query.Brokers,
			PickedTypes: query.PickedTypes,
		},
	})
	if err != nil {
		return nil, nil, apierrors.FromPipelineError(err)
	}
	return result, &query, nil
}

// CompareResponse is the JSON envelope for a successful comparison.
type CompareResponse struct {
	Success bool                       `json:"success"`
	Data    *services.ComparisonResult `json:"data"`
}

// Render implements the render.Renderer interface.
func (cr *CompareResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Compare handles POST /api/compare.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	result, _, apiErr := h.run(r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	if err := render.Render(w, r, &CompareResponse{Success: true, Data: result}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render response",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// ExportEnriched handles POST /api/compare/export, returning the
// enriched rows as a CSV attachment.
func (h *CompareHandler) ExportEnriched(w http.ResponseWriter, r *http.Request) {
	result, _, apiErr := h.run(r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	h.writeCSVAttachment(w, r, fmt.Sprintf("enriched_%s.csv", time.Now().Format("20060102_150405")), func() error {
		return h.exporter.WriteEnriched(w, result.FilteredRows)
	})
}

// ExportSummary handles POST /api/compare/export/summary, returning the
// per-broker summary as a CSV attachment.
func (h *CompareHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	result, _, apiErr := h.run(r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	h.writeCSVAttachment(w, r, fmt.Sprintf("summary_%s.csv", time.Now().Format("20060102_150405")), func() error {
		return h.exporter.WriteSummary(w, result.Summary)
	})
}

// RollupResponse is the JSON envelope for a company rollup.
type RollupResponse struct {
	Success bool                 `json:"success"`
	Data    domain.CompanyRollup `json:"data"`
}

// Render implements the render.Renderer interface.
func (rr *RollupResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Rollup handles POST /api/compare/rollup: the one-line consensus view
// for the uploaded rows, optionally filtered by broker/picked_type.
func (h *CompareHandler) Rollup(w http.ResponseWriter, r *http.Request) {
	result, query, apiErr := h.run(r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	rollup := h.service.Rollup(r.Context(), query.Company, result.FilteredRows)
	if err := render.Render(w, r, &RollupResponse{Success: true, Data: rollup}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render response",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

func (h *CompareHandler) writeCSVAttachment(w http.ResponseWriter, r *http.Request, filename string, write func() error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

func (h *CompareHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	h.logger.WarnContext(r.Context(), "comparison request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("status", apiErr.StatusCode),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("error", apiErr.Message))

	if err := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
