// Package rest provides HTTP handlers for the inventory views: product CRUD,
// the sell workflow, sales log/summary, and spreadsheet import/export.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	inverrors "invtrack/internal/errors"
	"invtrack/internal/inventory"
	"invtrack/internal/spreadsheet"
	"invtrack/pkg/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize caps uploaded workbooks at 16 MiB.
const maxImportSize = 16 << 20

type Handler struct {
	store    *inventory.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler backed by the given inventory store.
func NewHandler(store *inventory.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Post("/import", h.ImportProducts)
		r.Get("/export", h.ExportProducts)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})

	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Post("/", h.Sell)
		r.Get("/summary", h.SalesSummary)
		r.Get("/export", h.ExportSales)
	})

	r.Get("/healthz", h.HealthCheck)
}

// ProductCreateDto represents the payload for creating a new product.
// OriginalStock is optional and defaults to Stock.
type ProductCreateDto struct {
	Name          string          `json:"name"    validate:"required,max=100"`
	Barcode       string          `json:"barcode" validate:"required,max=64"`
	Stock         int             `json:"stock"   validate:"gte=0"`
	Price         decimal.Decimal `json:"price"   validate:"-"`
	OriginalStock *int            `json:"originalStock,omitempty" validate:"-"`
}

// ProductUpdateDto represents the payload for editing a product. The stored
// original stock always survives the edit regardless of this payload.
type ProductUpdateDto struct {
	Name    string          `json:"name"    validate:"required,max=100"`
	Barcode string          `json:"barcode" validate:"required,max=64"`
	Stock   int             `json:"stock"   validate:"gte=0"`
	Price   decimal.Decimal `json:"price"   validate:"-"`
}

// SellDto represents a sell request for one unit by barcode.
type SellDto struct {
	Barcode string `json:"barcode" validate:"required"`
}

// listResponse is one page of a filtered collection. Total counts all
// matching rows, not just the visible page.
type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
}

// ListProducts returns one page of the product list, filtered by the optional
// query parameter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := web.ParseOptionalGte(r, w, mLogger, "page", 1, 1)
	if !ok {
		return
	}
	query := r.URL.Query().Get("query")

	filtered := inventory.Filter(h.store.Products(), query)
	web.RespondJSON(w, mLogger, http.StatusOK, listResponse{
		Items: inventory.Page(filtered, page),
		Total: len(filtered),
		Page:  page,
	})
}

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}
	if dto.Price.IsNegative() {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product := h.store.Add(r.Context(), inventory.AddInput{
		Name:          dto.Name,
		Barcode:       dto.Barcode,
		Stock:         dto.Stock,
		Price:         dto.Price,
		OriginalStock: dto.OriginalStock,
	})
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", product.ID, "Name", product.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, product)
}

// UpdateProduct replaces a product's editable fields. The recorded original
// stock is preserved by the store.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}
	if dto.Price.IsNegative() {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Price must not be negative")
		return
	}

	updated := h.store.Edit(r.Context(), inventory.Product{
		ID:      id,
		Name:    dto.Name,
		Barcode: dto.Barcode,
		Stock:   dto.Stock,
		Price:   dto.Price,
	})
	if updated == nil {
		mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteProduct removes a product by its ID. Unknown IDs are not an error.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	h.store.Remove(r.Context(), id)
	mLogger.InfoContext(r.Context(), "Product removed", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Sell sells one unit of the first product matching the given barcode.
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto SellDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	entry, err := h.store.Sell(r.Context(), dto.Barcode)
	if err != nil {
		var outOfStock *inverrors.OutOfStockError
		switch {
		case errors.Is(err, inverrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Item not found", "barcode", dto.Barcode)
			web.RespondError(w, mLogger, http.StatusNotFound, "Item not found")
		case errors.As(err, &outOfStock):
			mLogger.WarnContext(r.Context(), "No stock left", "barcode", dto.Barcode, "name", outOfStock.Name)
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("No stock left for %q", outOfStock.Name))
		default:
			mLogger.ErrorContext(r.Context(), "Error selling item", "barcode", dto.Barcode, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to sell item")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Sold 1 unit", "barcode", entry.Barcode, "name", entry.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, entry)
}

// ListSales returns one page of the sales log, most recent first.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := web.ParseOptionalGte(r, w, mLogger, "page", 1, 1)
	if !ok {
		return
	}
	query := r.URL.Query().Get("query")

	filtered := inventory.Filter(h.store.SalesLog(), query)
	web.RespondJSON(w, mLogger, http.StatusOK, listResponse{
		Items: inventory.Page(filtered, page),
		Total: len(filtered),
		Page:  page,
	})
}

// SalesSummary returns one page of per-product sold totals. The filter is
// applied to the products before counting.
func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := web.ParseOptionalGte(r, w, mLogger, "page", 1, 1)
	if !ok {
		return
	}
	query := r.URL.Query().Get("query")

	filtered := inventory.Filter(h.store.Products(), query)
	rows := inventory.Summarize(filtered, h.store.SalesLog())
	web.RespondJSON(w, mLogger, http.StatusOK, listResponse{
		Items: inventory.Page(rows, page),
		Total: len(rows),
		Page:  page,
	})
}

// ImportProducts reads an uploaded xlsx workbook and adds every row as a
// product. Coerced cells are reported per row; no row is rejected.
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		mLogger.ErrorContext(r.Context(), "Error parsing multipart form", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	result, err := spreadsheet.Import(file)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error importing workbook", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Failed to read workbook")
		return
	}
	for _, input := range result.Inputs {
		h.store.Add(r.Context(), input)
	}
	mLogger.InfoContext(r.Context(), "Products imported successfully", "count", len(result.Inputs), "issues", len(result.Issues))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"imported": len(result.Inputs),
		"issues":   result.Issues,
	})
}

// ExportProducts serves the product list as an xlsx attachment. The active
// search filter applies; pagination does not.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := r.URL.Query().Get("query")

	data, err := spreadsheet.ExportProducts(inventory.Filter(h.store.Products(), query))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error exporting products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to export products")
		return
	}
	respondAttachment(w, "Inventory.xlsx", data)
}

// ExportSales serves the sales log as an xlsx attachment.
func (h *Handler) ExportSales(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := r.URL.Query().Get("query")

	data, err := spreadsheet.ExportSales(inventory.Filter(h.store.SalesLog(), query))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error exporting sales log", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to export sales log")
		return
	}
	respondAttachment(w, "Sales_Log.xlsx", data)
}

// HealthCheck reports liveness and whether snapshot persistence is degraded.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	persistence := "ok"
	if h.store.Degraded() {
		persistence = "degraded"
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{
		"status":      "ok",
		"persistence": persistence,
	})
}

// validateStruct runs the validator and writes field-level errors on failure.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, payload any) bool {
	err := h.validate.Struct(payload)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
	return false
}

func respondAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
