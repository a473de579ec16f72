package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/validation"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// uploadField is the multipart field carrying the statement workbook.
const uploadField = "file"

// multipartOverhead is allowed on top of the file size for boundaries and headers.
const multipartOverhead = 1 << 20

// statusClasses maps batch errors to HTTP status codes. The first match wins.
var statusClasses = []struct {
	err    error
	status int
}{
	{apperrors.ErrInvalidOwnerID, http.StatusBadRequest},
	{apperrors.ErrInvalidUpload, http.StatusBadRequest},
	{apperrors.ErrInvalidWorkbook, http.StatusBadRequest},
	{apperrors.ErrSheetNotFound, http.StatusBadRequest},
	{apperrors.ErrFeedUnavailable, http.StatusBadGateway},
	{apperrors.ErrInvalidFeedPayload, http.StatusBadGateway},
}

// respondServiceError writes err with the status of its class. fallback is the error
// message used when err belongs to no known class.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	for _, c := range statusClasses {
		if errors.Is(err, c.err) {
			response.RespondError(w, c.status, c.err.Error(), err.Error())
			return
		}
	}
	response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
}

func ownerID(r *http.Request) string {
	return chi.URLParam(r, middleware.OwnerIDParam)
}

// openUpload reads the statement workbook from a multipart request. The caller must
// call the returned close function.
func openUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*workbook.Excel, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrInvalidUpload, maxBytes)
		}
		return nil, nil, fmt.Errorf("%w: file is required", apperrors.ErrInvalidUpload)
	}
	defer file.Close()

	if err := validation.ValidateUpload(header, maxBytes); err != nil {
		return nil, nil, err
	}

	wb, err := workbook.Open(file)
	if err != nil {
		return nil, nil, err
	}
	return wb, func() { _ = wb.Close() }, nil
}
