package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	customError "github.com/lucianocastr/estudiors/pkg/errors"
	"github.com/lucianocastr/estudiors/pkg/response"
)

// decodeAndValidate parses the JSON body into dst and runs the struct
// validations.
func decodeAndValidate(r *http.Request, validate *validator.Validate, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// pathUUID extracts a UUID path variable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// authorFromHeader reads the optional acting-user id from the panel request.
func authorFromHeader(r *http.Request) *uuid.UUID {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// writeServiceError maps business error codes to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Internal server error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeCaseNotFound,
		customError.ErrCodeInquiryNotFound,
		customError.ErrCodeDebtNotFound,
		customError.ErrCodeAlertNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeValidation,
		customError.ErrCodeContactRequired,
		customError.ErrCodeInvalidDebtCategory:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeAlertAlreadyClosed:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
