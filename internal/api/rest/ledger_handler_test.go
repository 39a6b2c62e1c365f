package rest_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/api/middleware"
	"github.com/feral-file/ff-observations/internal/api/rest"
	"github.com/feral-file/ff-observations/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/ledger"
	"github.com/feral-file/ff-observations/internal/mocks"
	"github.com/feral-file/ff-observations/internal/ownership"
)

const testAPIKey = "devnet-key"

var (
	testContract = common.HexToAddress("0xC00000000000000000000000000000000000000C")
	testSweeper  = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

type countingNotifier struct {
	count int
}

func (n *countingNotifier) Notify() {
	n.count++
}

type testLedgerHandlerMocks struct {
	ctrl       *gomock.Controller
	clock      *mocks.MockClock
	ledger     ledger.Ledger
	notifier   *countingNotifier
	router     *gin.Engine
	privateKey *rsa.PrivateKey
	now        time.Time
}

func setupTestLedgerHandler(t *testing.T) *testLedgerHandlerMocks {
	ctrl := gomock.NewController(t)
	tm := &testLedgerHandlerMocks{
		ctrl:     ctrl,
		clock:    mocks.NewMockClock(ctrl),
		notifier: &countingNotifier{},
		router:   gin.New(),
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	tm.clock.EXPECT().Now().DoAndReturn(func() time.Time { return tm.now }).AnyTimes()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	tm.privateKey = privateKey

	tm.ledger = ledger.New(ledger.Config{
		Chain:          domain.ChainLedgerDevnet,
		Contract:       testContract,
		SweepRecipient: testSweeper,
	}, tm.clock, ownership.NewRegistry(nil))

	authCfg := middleware.AuthConfig{
		JWTPublicKey: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
		APIKeys:      []string{testAPIKey},
	}
	rest.SetupLedgerRoutes(tm.router, rest.NewLedgerHandler(tm.ledger, tm.notifier, tm.clock), authCfg)
	return tm
}

func tearDownTestLedgerHandler(tm *testLedgerHandlerMocks) {
	tm.ctrl.Finish()
}

func (tm *testLedgerHandlerMocks) bearer(t *testing.T, subject common.Address) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(tm.privateKey)
	require.NoError(t, err)
	return "Bearer " + token
}

func (tm *testLedgerHandlerMocks) do(method, path, auth string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	tm.router.ServeHTTP(w, req)
	return w
}

func (tm *testLedgerHandlerMocks) observe(t *testing.T, caller common.Address, req dto.ObserveRequest) *httptest.ResponseRecorder {
	return tm.do(http.MethodPost, "/api/v1/observations", tm.bearer(t, caller), req)
}

func decodeReceipt(t *testing.T, w *httptest.ResponseRecorder) dto.ReceiptResponse {
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.ReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLedgerHandler_Observe(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	resp := decodeReceipt(t, tm.observe(t, testObserver, dto.ObserveRequest{
		Collection: testCollection.Hex(),
		TokenID:    "1",
		Note:       "first",
		Time:       12,
	}))

	require.NotNil(t, resp.ObservationID)
	assert.Equal(t, uint64(1), *resp.ObservationID)
	assert.Equal(t, uint64(1), resp.BlockNumber)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventTypeObservation, resp.Events[0].Type)
	assert.Equal(t, testObserver, resp.Events[0].Observation.Observer)
	assert.False(t, resp.Events[0].Observation.Located)
	assert.Equal(t, 1, tm.notifier.count)
}

func TestLedgerHandler_ObserveLocated(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	x, y := int32(-5), int32(7)
	resp := decodeReceipt(t, tm.observe(t, testObserver, dto.ObserveRequest{
		Collection: testCollection.Hex(),
		TokenID:    "1",
		Note:       "here",
		X:          &x,
		Y:          &y,
	}))

	require.Len(t, resp.Events, 1)
	obs := resp.Events[0].Observation
	assert.True(t, obs.Located)
	assert.Equal(t, int32(-5), obs.X)
	assert.Equal(t, int32(7), obs.Y)
}

func TestLedgerHandler_ObserveRequiresCaller(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	req := dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1"}

	// no credentials
	w := tm.do(http.MethodPost, "/api/v1/observations", "", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// an API key authenticates but names no caller
	w = tm.do(http.MethodPost, "/api/v1/observations", "ApiKey "+testAPIKey, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeCallerIdentityRequired, decodeError(t, w).Code)

	assert.Equal(t, uint64(0), tm.ledger.Head())
	assert.Equal(t, 0, tm.notifier.count)
}

func TestLedgerHandler_ObserveValidation(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	x := int32(1)
	tests := []struct {
		name string
		req  dto.ObserveRequest
	}{
		{name: "bad collection", req: dto.ObserveRequest{Collection: "0x12", TokenID: "1"}},
		{name: "bad token", req: dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "one"}},
		{name: "bad view type", req: dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", ViewType: 9}},
		{name: "x without y", req: dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", X: &x}},
		{name: "bad value", req: dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", Value: "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tm.observe(t, testObserver, tt.req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeError(t, w).Code)
		})
	}
	assert.Equal(t, uint64(0), tm.ledger.Head())
}

func TestLedgerHandler_ObserveLedgerErrors(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	tests := []struct {
		name   string
		req    dto.ObserveRequest
		status int
		code   apierrors.ErrorCode
	}{
		{
			name:   "update without parent",
			req:    dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", Update: true},
			status: http.StatusBadRequest,
			code:   apierrors.ErrCodeUpdateRequiresParent,
		},
		{
			name:   "parent out of range",
			req:    dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", Parent: 1},
			status: http.StatusBadRequest,
			code:   apierrors.ErrCodeInvalidParent,
		},
		{
			name:   "tip without recipient",
			req:    dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", Value: "10"},
			status: http.StatusBadRequest,
			code:   apierrors.ErrCodeInvalidRecipient,
		},
		{
			name:   "tip beyond balance",
			req:    dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1", Value: "10", TipRecipient: testRecipient.Hex()},
			status: http.StatusPaymentRequired,
			code:   apierrors.ErrCodeInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tm.observe(t, testObserver, tt.req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
	assert.Equal(t, uint64(0), tm.ledger.Head())
}

func TestLedgerHandler_FundTipAndClaim(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	// funding needs an API key
	w := tm.do(http.MethodPost, "/api/v1/accounts/"+testObserver.Hex()+"/fund", tm.bearer(t, testObserver), dto.FundRequest{Amount: "100"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = tm.do(http.MethodPost, "/api/v1/accounts/"+testObserver.Hex()+"/fund", "ApiKey "+testAPIKey, dto.FundRequest{Amount: "100"})
	require.Equal(t, http.StatusOK, w.Code)
	var balance dto.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "100", balance.Balance)

	decodeReceipt(t, tm.observe(t, testObserver, dto.ObserveRequest{
		Collection:   testCollection.Hex(),
		TokenID:      "1",
		Note:         "tip",
		Value:        "40",
		TipRecipient: testRecipient.Hex(),
	}))

	w = tm.do(http.MethodGet, "/api/v1/tips/"+testRecipient.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tip dto.TipResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tip))
	assert.Equal(t, "40", tip.Balance)
	assert.Equal(t, uint64(tm.now.Unix()), tip.UnclaimedSince)
	assert.Equal(t, ledger.TipClaimableByOwner.String(), tip.State)

	// a stranger may not claim before the sweep delay
	w = tm.do(http.MethodPost, "/api/v1/tips/"+testRecipient.Hex()+"/claim", tm.bearer(t, testObserver), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeNotAuthorized, decodeError(t, w).Code)

	resp := decodeReceipt(t, tm.do(http.MethodPost, "/api/v1/tips/"+testRecipient.Hex()+"/claim", tm.bearer(t, testRecipient), nil))
	require.NotNil(t, resp.Amount)
	assert.Equal(t, "40", *resp.Amount)
	assert.Equal(t, big.NewInt(40), tm.ledger.BalanceOf(testRecipient))
	assert.Equal(t, big.NewInt(60), tm.ledger.BalanceOf(testObserver))

	w = tm.do(http.MethodGet, "/api/v1/accounts/"+testRecipient.Hex()+"/balance", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "40", balance.Balance)

	// nothing left
	w = tm.do(http.MethodPost, "/api/v1/tips/"+testRecipient.Hex()+"/claim", tm.bearer(t, testRecipient), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrCodeNoTipsToClaim, decodeError(t, w).Code)
}

func TestLedgerHandler_SweepAfterDelay(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	require.NoError(t, tm.ledger.Fund(t.Context(), testObserver, big.NewInt(5)))
	decodeReceipt(t, tm.observe(t, testObserver, dto.ObserveRequest{
		Collection:   testCollection.Hex(),
		TokenID:      "1",
		Value:        "5",
		TipRecipient: testRecipient.Hex(),
	}))

	tm.now = tm.now.Add(domain.SweepDelay)

	w := tm.do(http.MethodGet, "/api/v1/tips/"+testRecipient.Hex(), "", nil)
	var tip dto.TipResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tip))
	assert.Equal(t, ledger.TipSweepEligible.String(), tip.State)

	resp := decodeReceipt(t, tm.do(http.MethodPost, "/api/v1/tips/"+testRecipient.Hex()+"/claim", tm.bearer(t, testSweeper), nil))
	assert.Equal(t, "5", *resp.Amount)
	assert.Equal(t, big.NewInt(5), tm.ledger.BalanceOf(testSweeper))
}

func TestLedgerHandler_ArtifactAndFoldedObservations(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	other := common.HexToAddress("0x2000000000000000000000000000000000000002")
	artifact := dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1"}

	first := artifact
	first.Note = "draft"
	decodeReceipt(t, tm.observe(t, testObserver, first))

	second := artifact
	second.Note = "to be deleted"
	decodeReceipt(t, tm.observe(t, other, second))

	edit := artifact
	edit.Parent, edit.Update, edit.Note = 1, true, "final"
	decodeReceipt(t, tm.observe(t, testObserver, edit))

	remove := artifact
	remove.Parent, remove.Update = 2, true
	decodeReceipt(t, tm.observe(t, other, remove))

	w := tm.do(http.MethodGet, "/api/v1/artifacts/"+testCollection.Hex()+"/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var aggregate dto.ArtifactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aggregate))
	assert.Equal(t, uint64(4), aggregate.Count)
	assert.Equal(t, uint64(1), aggregate.FirstBlock)

	w = tm.do(http.MethodGet, "/api/v1/artifacts/"+testCollection.Hex()+"/1/observations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ObservationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Observations, 1)
	assert.Equal(t, uint64(1), list.Observations[0].ID)
	assert.Equal(t, "final", list.Observations[0].Note)
	assert.Equal(t, uint64(3), list.Observations[0].UpdatedBy)

	// unknown artifacts report a zero aggregate
	w = tm.do(http.MethodGet, "/api/v1/artifacts/"+testCollection.Hex()+"/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aggregate))
	assert.Equal(t, uint64(0), aggregate.Count)
}

func TestLedgerHandler_HealthCheck(t *testing.T) {
	tm := setupTestLedgerHandler(t)
	defer tearDownTestLedgerHandler(tm)

	decodeReceipt(t, tm.observe(t, testObserver, dto.ObserveRequest{Collection: testCollection.Hex(), TokenID: "1"}))

	w := tm.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","head":1}`, w.Body.String())
}
