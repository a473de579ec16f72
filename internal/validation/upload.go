package validation

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
)

// UploadExtension is the only statement format accepted.
const UploadExtension = ".xlsx"

// ValidateUpload checks an uploaded statement before it is parsed: it must be a non-empty
// .xlsx file no larger than maxBytes.
func ValidateUpload(header *multipart.FileHeader, maxBytes int64) error {
	errors := make(map[string]string)

	switch {
	case header == nil:
		errors["file"] = "file is required"
	case !strings.EqualFold(filepath.Ext(header.Filename), UploadExtension):
		errors["file"] = fmt.Sprintf("file must have the %s extension", UploadExtension)
	case header.Size == 0:
		errors["file"] = "file is empty"
	case maxBytes > 0 && header.Size > maxBytes:
		errors["file"] = fmt.Sprintf("file exceeds %d bytes", maxBytes)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors, Kind: apperrors.ErrInvalidUpload}
	}
	return nil
}
