package api

import (
	"database/sql"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	mockdb "github.com/banachtech/smile/db/mock"
	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/smile"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var (
	testSabr    = sabrParams{Alpha: 0.05, Beta: 0.5, Rho: -0.3, Nu: 0.2}
	testStrikes = []float64{0.005, 0.01, 0.015, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.1}
)

const (
	testForward = 0.03
	testExpiry  = 7.0
)

func TestSabrVolatility(t *testing.T) {
	data, err := testSabr.data()
	require.NoError(t, err)

	testCases := []struct {
		name          string
		body          volatilityRequest
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "VALUES",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{0.02, 0.03}, Expiry: testExpiry, Sabr: testSabr},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var rsp struct{ Points []volatilityPoint }
				decode(t, recorder, &rsp)
				require.Len(t, rsp.Points, 2)
				for _, p := range rsp.Points {
					want, err := smile.DefaultHagan.Volatility(testForward, p.Strike, testExpiry, data)
					require.NoError(t, err)
					require.InDelta(t, want, p.Volatility, 1e-14)
					require.Empty(t, p.Derivatives)
					require.Nil(t, p.Second)
				}
			},
		},
		{
			name: "ADJOINT",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{0.04}, Expiry: testExpiry, Sabr: testSabr, Order: 1},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var rsp struct{ Points []volatilityPoint }
				decode(t, recorder, &rsp)
				want, err := smile.DefaultHagan.VolatilityAdjoint(testForward, 0.04, testExpiry, data)
				require.NoError(t, err)
				require.InDeltaSlice(t, want.Derivatives, rsp.Points[0].Derivatives, 1e-12)
				require.Nil(t, rsp.Points[0].Second)
			},
		},
		{
			name: "SECOND_ORDER",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{0.04}, Expiry: testExpiry, Sabr: testSabr, Order: 2},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var rsp struct{ Points []volatilityPoint }
				decode(t, recorder, &rsp)
				want, err := smile.DefaultHagan.VolatilityAdjoint2(testForward, 0.04, testExpiry, data)
				require.NoError(t, err)
				require.NotNil(t, rsp.Points[0].Second)
				require.InDelta(t, want.Second[0][1], rsp.Points[0].Second[0][1], 1e-10)
				require.Equal(t, rsp.Points[0].Second[0][1], rsp.Points[0].Second[1][0])
			},
		},
		{
			name: "ZERO_FORWARD",
			body: volatilityRequest{Strikes: []float64{0.02}, Expiry: testExpiry, Sabr: testSabr},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NEGATIVE_ALPHA",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{0.02}, Expiry: testExpiry, Sabr: sabrParams{Alpha: -1, Beta: 0.5}},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "OVERFLOW",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{testForward}, Expiry: testExpiry, Sabr: sabrParams{Alpha: 1e308, Beta: 0, Rho: 0, Nu: 0.4}},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), "non-finite")
			},
		},
		{
			name: "BAD_ORDER",
			body: volatilityRequest{Forward: testForward, Strikes: []float64{0.02}, Expiry: testExpiry, Sabr: testSabr, Order: 3},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mockdb.NewMockStore(ctrl)
			expectAuth(t, store)

			server := newTestServer(t, store)
			recorder := serveJSON(t, server, http.MethodPost, "/v1/sabr/volatility", tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestVolatilityPointFinite(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()
	testCases := []struct {
		name  string
		point volatilityPoint
		ok    bool
	}{
		{name: "VALUE", point: volatilityPoint{Volatility: 0.2}, ok: true},
		{name: "FULL", point: volatilityPoint{Volatility: 0.2, Derivatives: []float64{1, 2}, Second: &[2][2]float64{{1, 2}, {3, 4}}}, ok: true},
		{name: "INFINITE_VALUE", point: volatilityPoint{Volatility: inf}},
		{name: "NAN_VALUE", point: volatilityPoint{Volatility: nan}},
		{name: "INFINITE_DERIVATIVE", point: volatilityPoint{Volatility: 0.2, Derivatives: []float64{1, -inf}}},
		{name: "NAN_SECOND", point: volatilityPoint{Volatility: 0.2, Derivatives: []float64{1}, Second: &[2][2]float64{{1, 2}, {nan, 4}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ok, tc.point.finite())
		})
	}
}

func TestSabrCalibrate(t *testing.T) {
	truth, err := testSabr.data()
	require.NoError(t, err)
	vols, err := smile.DefaultHagan.VolatilitySmile(testForward, testStrikes, testExpiry, truth)
	require.NoError(t, err)
	beta := 0.5

	checkFit := func(t *testing.T, recorder *httptest.ResponseRecorder) calibrateResponse {
		require.Equal(t, http.StatusOK, recorder.Code)
		var rsp calibrateResponse
		decode(t, recorder, &rsp)
		require.Equal(t, "SPX", rsp.Ticker)
		require.InDelta(t, testSabr.Alpha, rsp.Sabr.Alpha, 1e-4)
		require.Equal(t, beta, rsp.Sabr.Beta)
		require.InDelta(t, testSabr.Rho, rsp.Sabr.Rho, 1e-3)
		require.InDelta(t, testSabr.Nu, rsp.Sabr.Nu, 1e-3)
		require.Less(t, rsp.ChiSquare, 1e-6)
		require.Len(t, rsp.Sensitivity, 4)
		require.Len(t, rsp.Sensitivity[0], len(testStrikes))
		return rsp
	}

	testCases := []struct {
		name          string
		body          calibrateRequest
		buildStubs    func(store *mockdb.MockStore)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: calibrateRequest{Ticker: "spx", Date: "2024-03-28", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes, Vols: vols, FixBeta: &beta},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				rsp := checkFit(t, recorder)
				require.Equal(t, "2024-03-28", rsp.Date)
				require.Zero(t, rsp.ID)
			},
		},
		{
			name: "STORE",
			body: calibrateRequest{Ticker: "spx", Date: "2024-03-28", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes, Vols: vols, FixBeta: &beta, Store: true},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(1).Return(db.SabrParameter{ID: 7}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				rsp := checkFit(t, recorder)
				require.Equal(t, int64(7), rsp.ID)
			},
		},
		{
			name: "STORE_ERROR",
			body: calibrateRequest{Ticker: "spx", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes, Vols: vols, FixBeta: &beta, Store: true},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(1).Return(db.SabrParameter{}, sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "TOO_FEW_STRIKES",
			body: calibrateRequest{Ticker: "spx", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes[:2], Vols: vols[:2]},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "MISMATCHED_VOLS",
			body: calibrateRequest{Ticker: "spx", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes, Vols: vols[:5]},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "BAD_DATE",
			body: calibrateRequest{Ticker: "spx", Date: "28/03/2024", Forward: testForward, Expiry: testExpiry, Strikes: testStrikes, Vols: vols},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().InsertSabrParameter(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mockdb.NewMockStore(ctrl)
			expectAuth(t, store)
			tc.buildStubs(store)

			server := newTestServer(t, store)
			recorder := serveJSON(t, server, http.MethodPost, "/v1/sabr/calibrate", tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestGetSabr(t *testing.T) {
	rows := []db.SabrParameter{
		{ID: 1, Ticker: "SPX", Date: "2024-03-28", Expiry: 1, Forward: 5200, Alpha: 2.1, Beta: 0.5, Rho: -0.6, Nu: 1.1},
		{ID: 2, Ticker: "SPX", Date: "2024-03-28", Expiry: 2, Forward: 5300, Alpha: 2.0, Beta: 0.5, Rho: -0.55, Nu: 0.9},
	}

	testCases := []struct {
		name          string
		ticker        string
		buildStubs    func(store *mockdb.MockStore)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name:   "OK",
			ticker: "spx",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().GetLatestSabrParameters(gomock.Any(), gomock.Eq("SPX")).Times(1).Return(rows, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var got []db.SabrParameter
				decode(t, recorder, &got)
				require.Equal(t, rows, got)
			},
		},
		{
			name:   "NOT_FOUND",
			ticker: "ndx",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().GetLatestSabrParameters(gomock.Any(), gomock.Eq("NDX")).Times(1).Return(nil, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:   "INTERNAL_ERROR",
			ticker: "spx",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().GetLatestSabrParameters(gomock.Any(), gomock.Any()).Times(1).Return(nil, sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:   "INVALID_TICKER",
			ticker: "sp-x",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().GetLatestSabrParameters(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mockdb.NewMockStore(ctrl)
			expectAuth(t, store)
			tc.buildStubs(store)

			server := newTestServer(t, store)
			recorder := serveJSON(t, server, http.MethodGet, "/v1/sabr/"+tc.ticker, nil)
			tc.checkResponse(t, recorder)
		})
	}
}
