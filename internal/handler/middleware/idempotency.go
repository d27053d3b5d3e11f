package middleware

import (
	"net/http"
	"strings"

	"proximity-pay/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	MaxIdempotencyKeyLen = 255

	ctxIdempotencyKey = "idempotency_key"
)

// IdempotencyKey validates the optional Idempotency-Key header and stores the
// trimmed value for the handler. An absent header is not an error.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if len(key) > MaxIdempotencyKeyLen {
			httperr.AbortWithError(c, http.StatusBadRequest, nil, "Idempotency-Key too long", nil)
			return
		}
		c.Set(ctxIdempotencyKey, key)
		c.Next()
	}
}

func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(ctxIdempotencyKey)
}
