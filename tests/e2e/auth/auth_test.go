//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"proximity-pay/internal/handler/dto/request"
	"proximity-pay/internal/handler/dto/response"
	"proximity-pay/internal/pkg/config"
	"proximity-pay/tests/common/authtest"
	"proximity-pay/tests/common/dbtest"
	"proximity-pay/tests/common/httptest"
	"proximity-pay/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL  = "/api/auth/login"
	walletURL = "/api/wallet/me"
)

type AuthSuite struct {
	e2e.SharedSuite
}

func (s *AuthSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestLogin() {
	s.Run("Normal case: token from login opens the wallet", func() {
		t := s.T()

		u := dbtest.CreateTestUser(t, s.DB, "alice@example.com", 1000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "alice@example.com", Password: dbtest.TestUserPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.LoginResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, u.UserID, res.UserID)
		require.NotEmpty(t, res.AccessToken)

		ww := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, res.AccessToken)
		require.Equal(t, http.StatusOK, ww.Code, ww.Body.String())
		var wallet response.WalletResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ww.Body, &wallet))
		require.Equal(t, u.WalletID, wallet.WalletID)
		require.Equal(t, int64(1000), wallet.AvailableCents)
	})

	s.Run("Error case: wrong password and unknown email look the same", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "alice@example.com", 0)

		cases := []request.LoginRequest{
			{Email: "alice@example.com", Password: "wrongpassword"},
			{Email: "nobody@example.com", Password: dbtest.TestUserPassword},
		}
		for _, req := range cases {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, req, "")
			httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid email or password")
		}
	})
}

func (s *AuthSuite) TestBearerToken() {
	jwtHelper := authtest.NewJWTHelper(s.Config.JWT)

	s.Run("Error case: missing, forged and expired tokens are rejected", func() {
		t := s.T()

		u := dbtest.CreateTestUser(t, s.DB, "alice@example.com", 0)

		forger := authtest.NewJWTHelper(config.JWTConfig{Secret: "someone-else", Duration: "1h"})

		for name, token := range map[string]string{
			"missing": "",
			"garbage": "not-a-jwt",
			"forged":  forger.GenerateToken(t, u.UserID),
			"expired": jwtHelper.CreateExpiredToken(t, u.UserID),
		} {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, token)
			require.Equal(t, http.StatusUnauthorized, w.Code, "%s token: %s", name, w.Body.String())
		}
	})

	s.Run("Error case: valid token without wallet is 404", func() {
		t := s.T()

		token := jwtHelper.GenerateToken(t, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})
}
