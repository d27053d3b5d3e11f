//go:build unit || e2e

package authtest

import (
	"bytes"
	"net/http"
	"testing"

	"proximity-pay/internal/handler/dto/request"
	"proximity-pay/internal/handler/dto/response"
	"proximity-pay/tests/common/dbtest"
	"proximity-pay/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res response.LoginResponse
	_ = httptest.DecodeResponseBody(t, bytes.NewBuffer(w.Body.Bytes()), &res)
	require.NotEmpty(t, res.AccessToken, "access token missing from login response")

	return res.AccessToken
}

// CreateAndLogin creates a user with a funded wallet and returns it along
// with a bearer token for it.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email string, balanceCents int64) (dbtest.TestUser, string) {
	t.Helper()
	u := dbtest.CreateTestUser(t, db, email, balanceCents)
	return u, LoginUser(t, router, email, dbtest.TestUserPassword)
}
