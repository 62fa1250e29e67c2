package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code"`
}

func sendError(w http.ResponseWriter, logger *log.Logger, message string, err error, code int) {
	logger.WithFields(log.Fields{
		"error": err,
		"code":  code,
	}).Error(message)

	response := ErrorResponse{
		Message: message,
		Code:    code,
	}
	if err != nil {
		response.Error = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
