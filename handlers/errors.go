package handlers

import (
	"net/http"

	"foodgram-backend/apperr"
	"foodgram-backend/logging"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Internal errors are logged
// and never leak their cause to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

func respondBadBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
}

// idParam reads a path id. Anything that is not a positive integer cannot
// name an existing object, so it is reported as not found.
func idParam(c *gin.Context, name, what string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		respondError(c, apperr.NotFound(what+" not found"))
		return 0, false
	}
	return id, true
}
