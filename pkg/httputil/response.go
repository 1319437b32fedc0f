// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding, request binding and generic middleware.
package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteErrorMessage(w, status, err.Error())
}

// WriteErrorMessage writes a JSON error response with a custom message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// WriteBadRequest writes a bad request error (400)
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes an unauthorized error (401)
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a forbidden error (403)
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusForbidden, message)
}

// WriteNotFoundError writes a not found error response (404 Not Found)
func WriteNotFoundError(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusNotFound, message)
}

// WriteInternalError writes a generic 500. The cause is never sent to the client.
func WriteInternalError(w http.ResponseWriter) {
	WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

// SetLocation sets the Location header when location is not empty
func SetLocation(w http.ResponseWriter, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
}

// WriteSuccess writes a 200 response with a Location header
func WriteSuccess(w http.ResponseWriter, location string, data interface{}) error {
	SetLocation(w, location)
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 response with a Location header
func WriteCreated(w http.ResponseWriter, location string, data interface{}) error {
	SetLocation(w, location)
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a 204 response with a Location header
func WriteNoContent(w http.ResponseWriter, location string) {
	SetLocation(w, location)
	w.WriteHeader(http.StatusNoContent)
}
