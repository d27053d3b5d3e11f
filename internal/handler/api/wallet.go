package api

import (
	"net/http"

	resdto "proximity-pay/internal/handler/dto/response"
	"proximity-pay/internal/handler/httperr"
	"proximity-pay/internal/handler/middleware"
	"proximity-pay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	q queries.WalletQueries
}

func NewWalletHandler(q queries.WalletQueries) *WalletHandler {
	return &WalletHandler{q: q}
}

// @Summary Get my wallet
// @Description Balance of the caller's wallet and its most recent ledger entries
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/wallet/me [get]
func (h *WalletHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	overview, err := h.q.GetMine(c.Request.Context(), userID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWalletOverview(overview))
}
