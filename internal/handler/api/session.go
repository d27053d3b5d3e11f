package api

import (
	"net/http"

	reqdto "proximity-pay/internal/handler/dto/request"
	resdto "proximity-pay/internal/handler/dto/response"
	"proximity-pay/internal/handler/httperr"
	"proximity-pay/internal/handler/middleware"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	cmds commands.SessionCommands
	q    queries.SessionQueries
}

func NewSessionHandler(cmds commands.SessionCommands, q queries.SessionQueries) *SessionHandler {
	return &SessionHandler{cmds: cmds, q: q}
}

// @Summary Create payment session
// @Description Create a session the caller will be paid into and get the identifier to broadcast
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSessionRequest true "Create session request"
// @Success 201 {object} resdto.CreateSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	payeeID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToParams(payeeID))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCreateSessionResult(result))
}

// @Summary Resolve broadcast identifier
// @Description Look up the session behind a scanned identifier. No authentication: anyone in radio range already holds the identifier.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body reqdto.ResolveSessionRequest true "Resolve request"
// @Success 200 {object} resdto.ResolveSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/sessions/resolve [post]
func (h *SessionHandler) Resolve(c *gin.Context) {
	var req reqdto.ResolveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.q.Resolve(c.Request.Context(), req.EID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResolvedSessionView(view))
}

// @Summary Lock payment session
// @Description Reserve an advertising session for payment. Advisory unless the server requires locks before settle.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.LockSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/sessions/{id}/lock [post]
func (h *SessionHandler) Lock(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	if err := h.cmds.Lock(c.Request.Context(), id, callerID); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.LockSessionResponse{OK: true})
}

// @Summary Settle payment session
// @Description Pay the session amount from the caller's wallet to the payee. A repeated Idempotency-Key is rejected with 409.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param Idempotency-Key header string false "Client generated key, unique per payment attempt"
// @Success 200 {object} resdto.SettleSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/sessions/{id}/settle [post]
func (h *SessionHandler) Settle(c *gin.Context) {
	payerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	result, err := h.cmds.Settle(c.Request.Context(), commands.SettleSessionParams{
		SessionID:      id,
		PayerID:        payerID,
		IdempotencyKey: middleware.GetIdempotencyKey(c),
	})
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSettleSessionResult(result))
}
