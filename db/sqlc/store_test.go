package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/banachtech/smile/util"
	"github.com/stretchr/testify/require"
)

func randomSmile(ticker, date string) InsertSabrParameterParams {
	return InsertSabrParameterParams{
		Ticker:    ticker,
		Date:      date,
		Expiry:    util.RandomFloat(0.1, 10),
		Forward:   util.RandomFloat(0.01, 0.05),
		Alpha:     util.RandomFloat(0.01, 0.1),
		Beta:      0.5,
		Rho:       util.RandomFloat(-0.5, 0.5),
		Nu:        util.RandomFloat(0.1, 1),
		ChiSquare: util.RandomFloat(0, 10),
	}
}

func TestInsertSabrParameter(t *testing.T) {
	requireDB(t)
	arg := randomSmile(util.RandomTicker(), time.Now().Format(util.DateLayout))
	row, err := testQueries.InsertSabrParameter(context.Background(), arg)
	require.NoError(t, err)
	require.NotZero(t, row.ID)
	require.Equal(t, arg.Ticker, row.Ticker)
	require.Equal(t, arg.Date, row.Date)
	require.Equal(t, arg.Alpha, row.Alpha)
	require.Equal(t, arg.Rho, row.Rho)
	require.Equal(t, arg.Nu, row.Nu)
	require.NotZero(t, row.CreatedAt)
}

func TestSaveSmilesTx(t *testing.T) {
	requireDB(t)
	store := NewStore(testDB)
	ticker := util.RandomTicker()
	old, today := "2000-01-03", time.Now().Format(util.DateLayout)

	_, err := store.SaveSmilesTx(context.Background(), SaveSmilesTxParams{
		Smiles: []InsertSabrParameterParams{randomSmile(ticker, old)},
	})
	require.NoError(t, err)

	arg := SaveSmilesTxParams{}
	for i := 0; i < 3; i++ {
		arg.Smiles = append(arg.Smiles, randomSmile(ticker, today))
	}
	result, err := store.SaveSmilesTx(context.Background(), arg)
	require.NoError(t, err)
	require.Len(t, result.Saved, 3)

	latest, err := store.GetLatestSabrParameters(context.Background(), ticker)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	for i, p := range latest {
		require.Equal(t, today, p.Date)
		if i > 0 {
			require.LessOrEqual(t, latest[i-1].Expiry, p.Expiry)
		}
	}

	listed, err := store.ListSabrParameters(context.Background(), ListSabrParametersParams{Ticker: ticker, Date: old})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestUser(t *testing.T) {
	requireDB(t)
	prefix, token, err := util.GenerateToken()
	require.NoError(t, err)
	arg := CreateUserParams{
		Prefix:       prefix,
		EmailAddress: util.RandomEmail(),
		Token:        token,
		GeneratedAt:  "2024-01-01 00:00:00",
		ExpiredAt:    "2024-07-01 00:00:00",
	}
	user, err := testQueries.CreateUser(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, arg.EmailAddress, user.EmailAddress)

	got, err := testQueries.GetUser(context.Background(), prefix)
	require.NoError(t, err)
	require.Equal(t, user, got)

	_, err = testQueries.GetUser(context.Background(), "missing!")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
