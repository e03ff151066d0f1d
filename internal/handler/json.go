// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
)

// Status values of the admin JSON endpoints.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  statusError,
		"message": message,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	w.Header().Set(HeaderContentType, "application/json")
	if data == nil {
		data = make(map[string]any)
	}
	data["status"] = statusSuccess
	_ = json.NewEncoder(w).Encode(data)
}
