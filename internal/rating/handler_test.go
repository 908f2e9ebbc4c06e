// AngelaMos | 2026
// handler_test.go

package rating

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

func newRatingRouter(ledger *memLedger, userID string) http.Handler {
	svc, _ := newMemService(ledger)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   core.RoleUser,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterUserRoutes(r)
	return r
}

func postRate(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSubmitHandlerReturnsAverage(t *testing.T) {
	storeID := uuid.NewString()
	ledger := newMemLedger(storeID)
	router := newRatingRouter(ledger, "u1")

	w := postRate(router, `{"storeId":"`+storeID+`","ratingValue":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Rating saved successfully","averageRating":4.0}`, w.Body.String())
	assert.Contains(t, w.Body.String(), `"averageRating":4.0`)

	w = postRate(router, `{"storeId":"`+storeID+`","ratingValue":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"averageRating":2.0`)
	assert.Equal(t, 1, ledger.rowsFor(storeID))
}

func TestSubmitHandlerValidation(t *testing.T) {
	storeID := uuid.NewString()
	router := newRatingRouter(newMemLedger(storeID), "u1")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{`, http.StatusBadRequest, "invalid request body"},
		{"value too high", `{"storeId":"` + storeID + `","ratingValue":6}`, http.StatusBadRequest, "ratingValue must be between 1 and 5"},
		{"value too low", `{"storeId":"` + storeID + `","ratingValue":0}`, http.StatusBadRequest, "ratingValue must be between 1 and 5"},
		{"missing store id", `{"ratingValue":3}`, http.StatusBadRequest, ""},
		{"unknown store", `{"storeId":"` + uuid.NewString() + `","ratingValue":3}`, http.StatusNotFound, "store not found"},
		{"malformed store id", `{"storeId":"not-a-store","ratingValue":3}`, http.StatusNotFound, "store not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRate(router, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body core.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}
