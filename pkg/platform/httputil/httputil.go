// Package httputil holds the JSON envelope helpers shared by every handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "flowmint/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies read by DecodeAndPrepare.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request DTOs that check their own shape after decoding.
type Validatable interface {
	Validate() error
}

// ErrorResponse is the JSON envelope for domain errors.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a status code and error envelope.
// Internal errors never expose their description.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: string(dErrors.CodeInternal)}

	if de, ok := dErrors.As(err); ok {
		status = StatusFor(de.Code)
		resp.Error = string(de.Code)
		if de.Code != dErrors.CodeInternal {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, status, resp)
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method.
// Malformed JSON and type mismatches are reported as validation errors (422).
// On failure the error response has already been written and ok is false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(&req)
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, decodeError(err))
		return nil, false
	}

	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}

// expectEOF rejects anything but whitespace after the first JSON value.
func expectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON value")

func decodeError(err error) error {
	if de, ok := dErrors.As(err); ok {
		return de
	}
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return dErrors.New(dErrors.CodeValidation, typeErr.Field+" must be a "+typeErr.Type.String())
		}
		return dErrors.New(dErrors.CodeValidation, "request body must be a JSON object")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, errTrailingData):
		return dErrors.New(dErrors.CodeValidation, "request body is not valid JSON")
	default:
		return dErrors.New(dErrors.CodeValidation, "invalid request body")
	}
}
