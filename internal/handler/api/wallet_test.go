//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"proximity-pay/internal/handler/api"
	resdto "proximity-pay/internal/handler/dto/response"
	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/usecase/queries"
	"proximity-pay/tests/common/httptest"
	queriesmock "proximity-pay/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockWalletQueries
	userID      uuid.UUID
}

func (s *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockWalletQueries(s.mockCtrl)
	s.userID = uuid.New()
	handler := api.NewWalletHandler(s.mockQueries)

	s.router.GET("/wallet/me", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
		}
		handler.Me(c)
	})
}

func (s *WalletHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) TestMe() {
	url := "/wallet/me"

	s.Run("success: 残高と直近の台帳を返す", func() {
		walletID := uuid.New()
		overview := &queries.WalletOverview{
			Wallet: queries.WalletView{WalletID: walletID, UserID: s.userID, AvailableCents: 500},
			Recent: []*queries.LedgerEntryView{
				{ID: 2, Type: "SEND_P2P", Direction: "DEBIT", AmountCents: 500, RefType: "PAYMENT_SESSION", RefID: uuid.NewString(), CreatedAt: time.Now()},
			},
		}
		s.mockQueries.EXPECT().GetMine(gomock.Any(), s.userID).Return(overview, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(walletID, response.WalletID)
		s.Equal(int64(500), response.AvailableCents)
		s.Require().Len(response.Recent, 1)
		s.Equal("DEBIT", response.Recent[0].Direction)
	})

	s.Run("success: 台帳が空でも recent は空配列", func() {
		overview := &queries.WalletOverview{Wallet: queries.WalletView{WalletID: uuid.New(), UserID: s.userID}}
		s.mockQueries.EXPECT().GetMine(gomock.Any(), s.userID).Return(overview, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"recent":[]`)
	})

	s.Run("error: 401 without caller identity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 404 when the caller has no wallet", func() {
		s.mockQueries.EXPECT().GetMine(gomock.Any(), s.userID).Return(nil, errs.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}
