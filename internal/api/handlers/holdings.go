package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
)

// HoldingHandler handles HTTP requests for an owner's holdings and dividends.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// Holdings handles GET requests to list an owner's holdings, newest first.
//
// Endpoint: GET /api/owner/{ownerId}/holdings
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Dividends handles GET requests to list an owner's dividend records, latest payment first.
//
// Endpoint: GET /api/owner/{ownerId}/dividends
// Response: 200 OK with array of DividendView
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	dividends, err := h.holdingService.GetDividends(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividends)
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}
