package handlers

import (
	"fmt"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
)

// ImportHandler handles statement uploads and feed-driven updates for one owner.
type ImportHandler struct {
	importService  *service.ImportService
	priceService   *service.PriceService
	uploadMaxBytes int64
}

// NewImportHandler creates a new ImportHandler with the provided service dependencies.
func NewImportHandler(importService *service.ImportService, priceService *service.PriceService, uploadMaxBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		priceService:   priceService,
		uploadMaxBytes: uploadMaxBytes,
	}
}

// ImportPositions handles an uploaded position statement.
// Every recognized asset-class sheet is read, rows for the same ticker are merged and the
// result is reconciled with the owner's holdings.
//
// Endpoint: POST /api/owner/{ownerId}/import/positions
// Request Body: multipart/form-data with an .xlsx file in the "file" field
// Response: 200 OK with PositionImportSummary
// Error: 400 Bad Request if the owner ID or the upload is invalid
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportPositions(w http.ResponseWriter, r *http.Request) {
	wb, closeWorkbook, err := openUpload(w, r, h.uploadMaxBytes)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportPositions)
		return
	}
	defer closeWorkbook()

	summary, err := h.importService.ImportPositions(r.Context(), ownerID(r), wb)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportPositions)
		return
	}

	response.RespondImport(w,
		fmt.Sprintf("Importação concluída! %d ativos criados, %d atualizados.", summary.Created, summary.Updated),
		summary)
}

// ImportDividends handles an uploaded dividend statement ("Proventos Recebidos" sheet).
//
// Endpoint: POST /api/owner/{ownerId}/import/dividends
// Request Body: multipart/form-data with an .xlsx file in the "file" field
// Response: 200 OK with DividendImportSummary
// Error: 400 Bad Request if the upload is invalid or lacks the dividend sheet
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportDividends(w http.ResponseWriter, r *http.Request) {
	wb, closeWorkbook, err := openUpload(w, r, h.uploadMaxBytes)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportDividends)
		return
	}
	defer closeWorkbook()

	summary, err := h.importService.ImportDividendStatement(r.Context(), ownerID(r), wb)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportDividends)
		return
	}

	response.RespondImport(w,
		fmt.Sprintf("%d dividendo(s) importado(s)! %d já existiam ou não encontrados.", summary.Imported, summary.Skipped+len(summary.NotFound)),
		summary)
}

// ImportDividendFeed imports the last twelve months of dividends from the market feed.
//
// Endpoint: POST /api/owner/{ownerId}/import/dividends/feed
// Response: 200 OK with DividendImportSummary
// Error: 502 Bad Gateway if the feed fails or answers with an unexpected payload
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportDividendFeed(w http.ResponseWriter, r *http.Request) {
	summary, err := h.importService.ImportDividendFeed(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportDividends)
		return
	}

	response.RespondImport(w,
		fmt.Sprintf("%d dividendo(s) importado(s)! %d já existiam.", summary.Imported, summary.Skipped),
		summary)
}

// RefreshPrices updates the current price of the owner's quotable holdings.
//
// Endpoint: POST /api/owner/{ownerId}/prices/refresh
// Response: 200 OK with PriceRefreshSummary
// Error: 502 Bad Gateway if the market feed batch request fails
// Error: 500 Internal Server Error if the holdings cannot be loaded
func (h *ImportHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	summary, err := h.priceService.RefreshPrices(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshPrices)
		return
	}

	response.RespondImport(w,
		fmt.Sprintf("%d ativo(s) atualizado(s) com sucesso!", summary.Updated),
		summary)
}
