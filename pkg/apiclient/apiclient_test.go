package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/intenthub/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/intents/route", r.URL.Path)

		var req models.RouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(31337), req.DestinationChainID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.RouteResponse{
			IntentOp:   &models.IntentOp{Nonce: "12345"},
			IntentCost: models.IntentCost{HasFulfilledAll: true, SponsorFee: "0"},
		})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	resp, err := client.CreateRoute(context.Background(), &models.RouteRequest{DestinationChainID: 31337})
	require.NoError(t, err)
	assert.Equal(t, "12345", resp.IntentOp.Nonce)
	assert.True(t, resp.IntentCost.HasFulfilledAll)
}

func TestSubmitIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/intent-operations", r.URL.Path)

		var req models.SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SignedIntentOp)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.SubmitResponse{
			Result: models.SubmitResult{ID: req.SignedIntentOp.Nonce, Status: models.StatusPending},
		})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	resp, err := client.SubmitIntent(context.Background(), &models.IntentOp{Nonce: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Result.ID)
	assert.Equal(t, models.StatusPending, resp.Result.Status)
}

func TestIntentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/intent-operation/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.IntentRecord{ID: "42", Status: models.StatusCompleted})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	record, err := client.IntentStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"intent 42 not found"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	_, err := client.IntentStatus(context.Background(), "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}
