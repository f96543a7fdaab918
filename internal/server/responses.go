package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps component errors onto responses. Internal error text
// never reaches the client.
func writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrMissingScope) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
