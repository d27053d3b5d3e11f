//go:build e2e

package session_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"proximity-pay/internal/handler/dto/response"
	"proximity-pay/internal/handler/middleware"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/tests/common/authtest"
	"proximity-pay/tests/common/dbtest"
	"proximity-pay/tests/common/httptest"
	"proximity-pay/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	sessionsURL = "/api/sessions"
	resolveURL  = "/api/sessions/resolve"
	lockURL     = "/api/sessions/%s/lock"
	settleURL   = "/api/sessions/%s/settle"
	walletURL   = "/api/wallet/me"
)

type SessionSuite struct {
	e2e.SharedSuite
}

func (s *SessionSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestSessionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) createSession(t *testing.T, token string, amount int64) response.CreateSessionResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, sessionsURL, map[string]any{"amount_cents": amount}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.CreateSessionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	return created
}

func (s *SessionSuite) settle(t *testing.T, token string, sid uuid.UUID, key string) *httptest.Recorder {
	t.Helper()
	headers := map[string]string{"Authorization": "Bearer " + token}
	if key != "" {
		headers[middleware.IdempotencyKeyHeader] = key
	}
	return httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, fmt.Sprintf(settleURL, sid), nil, headers)
}

// =============================================================================
// TestPaymentFlow - create, resolve, lock and settle against a real database
// =============================================================================

func (s *SessionSuite) TestPaymentFlow() {
	s.Run("Normal case: payer pays 500 of 1000 to payee", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		created := s.createSession(t, payeeToken, 500)
		require.Len(t, created.EID, 10)
		require.Equal(t, "ADVERTISING", dbtest.SessionStatus(t, s.DB, created.SID))

		// resolve needs no token
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, resolveURL, map[string]any{"eid": created.EID}, "")
		require.Equal(t, http.StatusOK, rw.Code, rw.Body.String())
		var resolved response.ResolveSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, rw.Body, &resolved))

		expected := &response.ResolveSessionResponse{
			SID:          created.SID,
			AmountCents:  500,
			PayeeDisplay: response.PayeeDisplay{Name: "bob"},
		}
		if diff := cmp.Diff(expected, &resolved, cmpopts.IgnoreFields(response.ResolveSessionResponse{}, "ExpAt")); diff != "" {
			t.Errorf("resolve response mismatch (-want +got):\n%s", diff)
		}

		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(lockURL, created.SID), nil, payerToken)
		require.Equal(t, http.StatusOK, lw.Code, lw.Body.String())
		require.Equal(t, "LOCKED", dbtest.SessionStatus(t, s.DB, created.SID))

		sw := s.settle(t, payerToken, created.SID, "flow-key-1")
		require.Equal(t, http.StatusOK, sw.Code, sw.Body.String())
		var settled response.SettleSessionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, sw.Body, &settled))
		require.True(t, settled.OK)
		require.Equal(t, int64(500), settled.NewBalanceCents)

		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payer.WalletID))
		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payee.WalletID))
		entries := dbtest.SessionEntries(t, s.DB, created.SID)
		require.Len(t, entries, 2)
		require.Equal(t, payer.WalletID, entries[0].WalletID)
		require.Equal(t, "SEND_P2P", entries[0].Type.String())
		require.Equal(t, payee.WalletID, entries[1].WalletID)
		require.Equal(t, "RECEIVE_P2P", entries[1].Type.String())
		require.Equal(t, int64(500), dbtest.LedgerSum(t, s.DB, payer.WalletID))
		require.Equal(t, int64(500), dbtest.LedgerSum(t, s.DB, payee.WalletID))
		dbtest.RequireLedgerMatchesBalance(t, s.DB, payer.WalletID, payee.WalletID)
		require.Equal(t, "PAID", dbtest.SessionStatus(t, s.DB, created.SID))

		ww := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, payeeToken)
		require.Equal(t, http.StatusOK, ww.Code, ww.Body.String())
		var wallet response.WalletResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ww.Body, &wallet))
		require.Equal(t, int64(500), wallet.AvailableCents)
		require.Len(t, wallet.Recent, 1)
		require.Equal(t, "RECEIVE_P2P", wallet.Recent[0].Type)
		require.Equal(t, "CREDIT", wallet.Recent[0].Direction)
		require.Equal(t, created.SID.String(), wallet.Recent[0].RefID)
	})

	s.Run("Normal case: settle without lock is accepted", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		created := s.createSession(t, payeeToken, 1000)

		w := s.settle(t, payerToken, created.SID, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, int64(0), dbtest.WalletBalance(t, s.DB, payer.WalletID))
		require.Equal(t, int64(1000), dbtest.WalletBalance(t, s.DB, payee.WalletID))
	})

	s.Run("Error case: create requires a token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, sessionsURL, map[string]any{"amount_cents": 500}, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "")
	})

	s.Run("Error case: non-positive amount is rejected", func() {
		t := s.T()

		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		for _, amount := range []int64{0, -1} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, sessionsURL, map[string]any{"amount_cents": amount}, token)
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "positive")
		}
	})

	s.Run("Error case: unknown and malformed identifiers resolve to 404", func() {
		t := s.T()

		for _, eid := range []string{"ffffffffff", "not-an-eid"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, resolveURL, map[string]any{"eid": eid}, "")
			httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
		}
	})
}

// =============================================================================
// TestSettleFailures - failed settles leave balances and ledger untouched
// =============================================================================

func (s *SessionSuite) TestSettleFailures() {
	s.Run("Error case: insufficient funds changes nothing", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "carol@example.com", 499)

		created := s.createSession(t, payeeToken, 500)

		w := s.settle(t, payerToken, created.SID, "poor-key")
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Insufficient funds")

		require.Equal(t, int64(499), dbtest.WalletBalance(t, s.DB, payer.WalletID))
		require.Equal(t, int64(0), dbtest.WalletBalance(t, s.DB, payee.WalletID))
		require.Empty(t, dbtest.SessionEntries(t, s.DB, created.SID))
		require.Equal(t, "ADVERTISING", dbtest.SessionStatus(t, s.DB, created.SID))

		// the key was rolled back with the transfer, so a funded retry succeeds
		topUp, err := s.Ledger.Deposit(context.Background(), commands.DepositParams{
			WalletID: payer.WalletID, AmountCents: 1, RefID: "top-up-1",
		})
		require.NoError(t, err)
		require.Equal(t, int64(500), topUp.BalanceCents)
		w = s.settle(t, payerToken, created.SID, "poor-key")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, int64(0), dbtest.WalletBalance(t, s.DB, payer.WalletID))
		dbtest.RequireLedgerMatchesBalance(t, s.DB, payer.WalletID, payee.WalletID)
	})

	s.Run("Error case: idempotency key replay is rejected", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		created := s.createSession(t, payeeToken, 500)

		w := s.settle(t, payerToken, created.SID, "replay-key")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Equal(t, created.SID.String(), dbtest.IdempotencyRef(t, s.DB, "replay-key"))

		w = s.settle(t, payerToken, created.SID, "replay-key")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Duplicate request")

		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payer.WalletID))
		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payee.WalletID))
		require.Len(t, dbtest.SessionEntries(t, s.DB, created.SID), 2)
	})

	s.Run("Error case: paid session cannot be settled again", func() {
		t := s.T()

		_, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		created := s.createSession(t, payeeToken, 500)
		require.Equal(t, http.StatusOK, s.settle(t, payerToken, created.SID, "").Code)

		w := s.settle(t, payerToken, created.SID, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")
		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payer.WalletID))
	})

	s.Run("Error case: payee cannot pay own session", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 1000)
		created := s.createSession(t, payeeToken, 500)

		w := s.settle(t, payeeToken, created.SID, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "own session")
		require.Equal(t, int64(1000), dbtest.WalletBalance(t, s.DB, payee.WalletID))
	})

	s.Run("Error case: expired session is gone everywhere", func() {
		t := s.T()

		_, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		payer, payerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		created := s.createSession(t, payeeToken, 500)
		dbtest.ExpireSession(t, s.DB, created.SID)

		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, resolveURL, map[string]any{"eid": created.EID}, "")
		httptest.AssertErrorResponse(t, rw, http.StatusGone, "")

		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(lockURL, created.SID), nil, payerToken)
		httptest.AssertErrorResponse(t, lw, http.StatusGone, "")

		sw := s.settle(t, payerToken, created.SID, "")
		httptest.AssertErrorResponse(t, sw, http.StatusGone, "")

		require.Equal(t, int64(1000), dbtest.WalletBalance(t, s.DB, payer.WalletID))
	})

	s.Run("Error case: unknown session is 404", func() {
		t := s.T()

		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", 1000)

		w := s.settle(t, token, uuid.New(), "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})
}

// =============================================================================
// TestConcurrency - races on the same session
// =============================================================================

func (s *SessionSuite) TestConcurrency() {
	s.Run("Concurrent locks: exactly one wins", func() {
		t := s.T()

		_, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		created := s.createSession(t, payeeToken, 500)

		const n = 8
		tokens := make([]string, n)
		for i := range n {
			_, tokens[i] = authtest.CreateAndLogin(t, s.DB, s.Router, fmt.Sprintf("payer%d@example.com", i), 1000)
		}

		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(lockURL, created.SID), nil, tokens[i])
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		var ok, conflict int
		for _, c := range codes {
			switch c {
			case http.StatusOK:
				ok++
			case http.StatusConflict:
				conflict++
			}
		}
		require.Equal(t, 1, ok, "codes: %v", codes)
		require.Equal(t, n-1, conflict, "codes: %v", codes)
	})

	s.Run("Concurrent settles: one transfer, balances conserved", func() {
		t := s.T()

		payee, payeeToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", 0)
		created := s.createSession(t, payeeToken, 500)

		const n = 6
		payers := make([]dbtest.TestUser, n)
		tokens := make([]string, n)
		for i := range n {
			payers[i], tokens[i] = authtest.CreateAndLogin(t, s.DB, s.Router, fmt.Sprintf("payer%d@example.com", i), 1000)
		}

		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				codes[i] = s.settle(t, tokens[i], created.SID, fmt.Sprintf("race-%d", i)).Code
			}(i)
		}
		wg.Wait()

		var ok int
		for _, c := range codes {
			if c == http.StatusOK {
				ok++
			} else {
				require.Equal(t, http.StatusConflict, c, "codes: %v", codes)
			}
		}
		require.Equal(t, 1, ok, "codes: %v", codes)

		var total int64
		for _, p := range payers {
			total += dbtest.WalletBalance(t, s.DB, p.WalletID)
		}
		total += dbtest.WalletBalance(t, s.DB, payee.WalletID)
		require.Equal(t, int64(n*1000), total)
		require.Equal(t, int64(500), dbtest.WalletBalance(t, s.DB, payee.WalletID))
		require.Len(t, dbtest.SessionEntries(t, s.DB, created.SID), 2)
		for _, p := range payers {
			dbtest.RequireLedgerMatchesBalance(t, s.DB, p.WalletID)
		}
		dbtest.RequireLedgerMatchesBalance(t, s.DB, payee.WalletID)
	})
}
