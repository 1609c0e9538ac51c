package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementClient(t *testing.T) {
	ctx := context.Background()

	t.Run("settles and returns the receipt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/settlements", r.URL.Path)

			var body settleRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(5), body.AmountCents)
			assert.Equal(t, "alice", body.PayerRef)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(settleResponse{ReceiptID: "rcpt_42"})
		}))
		defer srv.Close()

		client := NewSettlementClient(srv.URL, time.Second)
		receiptID, err := client.Settle(ctx, 5, "alice", "connection_request:req_1")
		require.NoError(t, err)
		assert.Equal(t, "rcpt_42", receiptID)
	})

	t.Run("non-2xx is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "insufficient funds", http.StatusPaymentRequired)
		}))
		defer srv.Close()

		client := NewSettlementClient(srv.URL, time.Second)
		_, err := client.Settle(ctx, 5, "alice", "memo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "402")
	})

	t.Run("empty receipt is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(settleResponse{})
		}))
		defer srv.Close()

		client := NewSettlementClient(srv.URL, time.Second)
		_, err := client.Settle(ctx, 5, "alice", "memo")
		require.Error(t, err)
	})

	t.Run("slow settlement times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			json.NewEncoder(w).Encode(settleResponse{ReceiptID: "too-late"})
		}))
		defer srv.Close()

		client := NewSettlementClient(srv.URL, 50*time.Millisecond)
		_, err := client.Settle(ctx, 5, "alice", "memo")
		require.Error(t, err)
	})
}
