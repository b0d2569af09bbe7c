package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mockdb "github.com/banachtech/smile/db/mock"
	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/util"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	var saved db.CreateUserParams

	testCases := []struct {
		name          string
		body          any
		buildStubs    func(store *mockdb.MockStore)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: registerRequest{Email: "quant@example.com"},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(1).
					DoAndReturn(func(_ context.Context, arg db.CreateUserParams) (db.User, error) {
						saved = arg
						return db.User{
							Prefix:       arg.Prefix,
							EmailAddress: arg.EmailAddress,
							Token:        arg.Token,
							GeneratedAt:  arg.GeneratedAt,
							ExpiredAt:    arg.ExpiredAt,
						}, nil
					})
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var rsp struct {
					Email     string `json:"email"`
					APIKey    string `json:"api_key"`
					ExpiredAt string `json:"expired_at"`
				}
				decode(t, recorder, &rsp)
				require.Equal(t, "quant@example.com", rsp.Email)
				require.Equal(t, saved.ExpiredAt, rsp.ExpiredAt)

				prefix, _, ok := strings.Cut(rsp.APIKey, ".")
				require.True(t, ok)
				require.Len(t, prefix, util.PrefixLength)
				require.Equal(t, saved.Prefix, prefix)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Token), []byte(rsp.APIKey)))
				require.Greater(t, saved.ExpiredAt, saved.GeneratedAt)
			},
		},
		{
			name: "INVALID_EMAIL",
			body: registerRequest{Email: "not-an-email"},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "INTERNAL_ERROR",
			body: registerRequest{Email: "quant@example.com"},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(1).Return(db.User{}, sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mockdb.NewMockStore(ctrl)
			tc.buildStubs(store)

			server := newTestServer(t, store)
			recorder := serveJSON(t, server, http.MethodPost, "/register", tc.body)
			tc.checkResponse(t, recorder)
		})
	}
}
