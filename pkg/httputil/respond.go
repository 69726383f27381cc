package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/phindler/fpdviz/pkg/errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
// Encoding failures are swallowed; by the time encoding runs the header
// has already been sent, so there is nothing useful left to report.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a structured JSON error response, mapping its
// error code to an HTTP status. Errors without a code become 500s with the
// code INTERNAL_ERROR and a generic message, so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := StatusFor(code)

	message := apperrors.UserMessage(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
		message = "internal server error"
	}

	WriteJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: message,
	}})
}

// StatusFor maps an application error code to an HTTP status code.
func StatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrCodeSourceTooBig:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeParse, apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeFileNotFound,
		apperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeSessionExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a JSON request body into v, enforcing a size limit.
// Unknown fields are rejected so typos in request bodies surface as 400s
// instead of silently dropped fields.
func DecodeJSON(r *http.Request, v any, maxBytes int64) error {
	body := http.MaxBytesReader(nil, r.Body, maxBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.New(apperrors.ErrCodeSourceTooBig,
				"request body too large (max %d bytes)", maxBytes)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

// Attachment sets the headers for a file download response.
func Attachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
