package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dailymd-dev/dailymd/internal/api"
	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/logger"
)

// WriteErrorAndStatusCode maps a classified error to its status and JSON
// body. Anything unclassified is a 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	resp := api.ErrorResponse{Message: "Internal server error"}
	status := http.StatusInternalServerError
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		status = e.StatusCode
		resp.Message = e.Message
		resp.Details = e.Details
	}

	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Log.Error("failed to encode error response", "error", encodeErr)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON request body and checks its required
// fields.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid request body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body failed validation", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}
