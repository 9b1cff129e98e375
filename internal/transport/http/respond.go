package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptcraft/internal/domain"
)

var kindStatus = map[string]int{
	"invalid_award":        http.StatusUnprocessableEntity,
	"unknown_user":         http.StatusNotFound,
	"not_found":            http.StatusNotFound,
	"already_completed":    http.StatusConflict,
	"already_exists":       http.StatusConflict,
	"no_freezes_available": http.StatusUnprocessableEntity,
	"already_active_today": http.StatusUnprocessableEntity,
	"freeze_limit_reached": http.StatusConflict,
	"not_enough_xp":        http.StatusUnprocessableEntity,
	"unauthorized":         http.StatusUnauthorized,
	"award_failed":         http.StatusInternalServerError,
	"internal":             http.StatusInternalServerError,
}

// respondError maps a domain error to its HTTP status and a stable error
// tag; unknown errors become an opaque 500.
func respondError(c *gin.Context, err error) {
	kind := domain.ErrorKind(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{"error": kind}
	if status != http.StatusInternalServerError {
		body["message"] = err.Error()
	}
	c.JSON(status, body)
}
