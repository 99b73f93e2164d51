// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError converts err into an AppError and writes it. fallback is the
// message clients see for errors that are not AppErrors.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, fallback string) {
	appErr := errors.Wrap(err, fallback)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("code", string(appErr.Code)),
		zap.String("message", appErr.Message),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Debug("Request rejected", fields...)
	}

	middleware.WriteError(w, r, appErr)
}

// decodeJSON reads a single JSON document from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if decoder.More() {
		return io.ErrUnexpectedEOF
	}
	return nil
}
