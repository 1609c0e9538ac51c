package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabforge/collabforge-backend/internal/collaboration/repository"
	"github.com/collabforge/collabforge-backend/internal/collaboration/service"
	"github.com/collabforge/collabforge-backend/internal/identity"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

type stubUsers struct{}

func (stubUsers) Exists(ctx context.Context, userID string) (bool, error) {
	return userID == "alice" || userID == "bob", nil
}

type stubProjects struct{}

func (stubProjects) Exists(ctx context.Context, projectID string) (bool, error) {
	return projectID == "proj_1", nil
}

func (stubProjects) AddCollaborator(ctx context.Context, projectID, userID string) error {
	return nil
}

type stubCharger struct {
	err error
}

func (s stubCharger) Charge(ctx context.Context, kind payments.ChargeKind, payerRef, referenceID string) (*payments.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &payments.Receipt{ReceiptID: "rcpt_1"}, nil
}

func newTestRouter(t *testing.T, charger service.Charger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wf := service.NewWorkflow(repository.NewMemory(), stubUsers{}, stubProjects{}, charger)

	r := gin.New()
	group := r.Group("/api/v1/collaborations")
	group.Use(identity.Required())
	Register(group, wf)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("X-Subject-Id", subject)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSendRequestEndpoint(t *testing.T) {
	t.Run("creates a pending request", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})

		rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "alice", gin.H{
			"recipient_id": "bob",
			"project_id":   "proj_1",
			"message":      "let's collaborate",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			OK      bool `json:"ok"`
			Request struct {
				RequestID string `json:"request_id"`
				Status    string `json:"status"`
			} `json:"request"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "pending", resp.Request.Status)
		assert.NotEmpty(t, resp.Request.RequestID)
	})

	t.Run("missing subject is unauthorized", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})

		rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "", gin.H{
			"recipient_id": "bob",
			"message":      "hi",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("failed payment maps to 402", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{err: payments.ErrPaymentFailed})

		rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "alice", gin.H{
			"recipient_id": "bob",
			"message":      "hi",
		})
		assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	})

	t.Run("unknown recipient maps to 404", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})

		rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "alice", gin.H{
			"recipient_id": "nobody",
			"message":      "hi",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRespondEndpoint(t *testing.T) {
	send := func(t *testing.T, r *gin.Engine) string {
		t.Helper()
		rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "alice", gin.H{
			"recipient_id": "bob",
			"message":      "join me",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Request struct {
				RequestID string `json:"request_id"`
			} `json:"request"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp.Request.RequestID
	}

	t.Run("recipient accepts once", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})
		id := send(t, r)

		rr := doJSON(t, r, http.MethodPut, "/api/v1/collaborations/"+id, "bob", gin.H{"decision": "accept"})
		require.Equal(t, http.StatusOK, rr.Code)

		// A second decision conflicts.
		rr = doJSON(t, r, http.MethodPut, "/api/v1/collaborations/"+id, "bob", gin.H{"decision": "decline"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("sender cannot respond", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})
		id := send(t, r)

		rr := doJSON(t, r, http.MethodPut, "/api/v1/collaborations/"+id, "alice", gin.H{"decision": "accept"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown decision", func(t *testing.T) {
		r := newTestRouter(t, stubCharger{})
		id := send(t, r)

		rr := doJSON(t, r, http.MethodPut, "/api/v1/collaborations/"+id, "bob", gin.H{"decision": "maybe"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListEndpoint(t *testing.T) {
	r := newTestRouter(t, stubCharger{})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/collaborations", "alice", gin.H{
		"recipient_id": "bob",
		"message":      "one",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/collaborations?role=recipient", "bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Requests []struct {
			SenderID string `json:"sender_id"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "alice", resp.Requests[0].SenderID)
}
