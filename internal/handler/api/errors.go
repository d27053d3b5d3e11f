package api

import (
	"net/http"

	"proximity-pay/internal/handler/httperr"
	"proximity-pay/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	sentinel error
	status   int
	code     string
	message  string
}

// Order matters only for errors carrying several marks; the first match wins.
var errorMappings = []errorMapping{
	{errs.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive number of cents"},
	{errs.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Not found"},
	{errs.ErrGone, http.StatusGone, "GONE", "Session expired"},
	{errs.ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_REQUEST", "Duplicate request"},
	{errs.ErrConflict, http.StatusConflict, "CONFLICT", "Session is not in a valid state for this operation"},
	{errs.ErrSelfPayment, http.StatusBadRequest, "SELF_PAYMENT", "Cannot pay your own session"},
	{errs.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"},
	{errs.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
}

func abortWithUsecaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errs.Is(err, m.sentinel) {
			httperr.AbortWithCode(c, m.status, err, m.code, m.message, nil)
			return
		}
	}
	httperr.AbortWithCode(c, http.StatusInternalServerError, err, "STORAGE_FAILURE", "Internal server error", nil)
}
