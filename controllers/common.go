package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/services"
	"tableside/utils"
)

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var invalidTransition *services.InvalidTransitionError
	var duplicateKey *services.DuplicateKeyError

	switch {
	case errors.As(err, &invalidTransition):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.As(err, &duplicateKey):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrGuestNotFound),
		errors.Is(err, services.ErrDishNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrChecksumInvalid),
		errors.Is(err, services.ErrMalformedPayload),
		errors.Is(err, services.ErrInvalidQuantity):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidTableToken),
		errors.Is(err, services.ErrCredentialRevoked):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// handlerID pulls the authenticated staff id from the context.
func handlerID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
