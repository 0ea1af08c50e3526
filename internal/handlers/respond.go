// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Every response uses the same
// envelope: {"success": true, "data": ...} on success and
// {"success": false, "error": {"message": ..., "field"?: ...}} on failure.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkpress/internal/apperr"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeData writes a success envelope with the given status code.
func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeRaw writes a pre-encoded success envelope, used on cache hits.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// writeError maps an application error onto its HTTP status and writes
// the error envelope. Anything that is not an apperr becomes a logged 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "error", err)
		writeErrorBody(w, http.StatusInternalServerError, &errorBody{Message: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPermission:
		status = http.StatusForbidden
	}

	writeErrorBody(w, status, &errorBody{Message: appErr.Message, Field: appErr.Field})
}

func writeErrorBody(w http.ResponseWriter, status int, body *errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: body}); err != nil {
		slog.Error("error response encode failed", "error", err)
	}
}

// decodeJSON decodes a request body into dst. Malformed bodies surface as
// validation errors, not server faults.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("body", "malformed JSON")
	}
	return nil
}

// encodeEnvelope marshals a success envelope for caching alongside the
// immediate response.
func encodeEnvelope(data any) ([]byte, error) {
	return json.Marshal(envelope{Success: true, Data: data})
}
