package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that the owner holds no instrument with the given ticker.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrSheetNotFound indicates that a workbook lacks a sheet the operation requires.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSymbolNotFound indicates that a quote lookup returned no results for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidOwnerID indicates that the owner identifier is missing or not a UUID.
	ErrInvalidOwnerID = errors.New("invalid owner ID")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidWorkbook indicates that an uploaded file could not be read as a spreadsheet.
	ErrInvalidWorkbook = errors.New("invalid workbook")

	// ErrInvalidUpload indicates that an upload is missing, too large or has the wrong extension.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Upstream errors abort a feed-based operation as a whole.
var (
	// ErrFeedUnavailable indicates that the quote/dividend feed answered with a non-success status
	// or could not be reached.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrInvalidFeedPayload indicates that the feed answered with a body that is not the expected shape.
	ErrInvalidFeedPayload = errors.New("invalid feed payload")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveDividends = errors.New("failed to retrieve dividends")
	ErrFailedToImportPositions   = errors.New("failed to import positions")
	ErrFailedToImportDividends   = errors.New("failed to import dividends")
	ErrFailedToRefreshPrices     = errors.New("failed to refresh prices")
)
