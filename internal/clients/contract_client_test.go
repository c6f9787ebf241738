package clients

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

func testRequest() *ContractCreateRequest {
	endDate := "2026-10-01"
	return &ContractCreateRequest{
		ClientID:      "client-1",
		FreelancerID:  "freelancer-1",
		ApplicationID: "app-1",
		Title:         "Build a data pipeline",
		Terms:         "Contract from offer: Build a data pipeline",
		Amount:        1500,
		StartDate:     "2026-08-31",
		EndDate:       &endDate,
		Status:        "DRAFT",
	}
}

func TestContractClient_Create(t *testing.T) {
	t.Parallel()

	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contracts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"contract-42","status":"DRAFT"}`))
	}))
	defer server.Close()

	client := NewHTTPContractClient(server.URL, 5*time.Second)

	id, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "contract-42", id)

	assert.Equal(t, "client-1", received["clientId"])
	assert.Equal(t, "freelancer-1", received["freelancerId"])
	assert.Equal(t, "app-1", received["offerApplicationId"])
	assert.Equal(t, float64(1500), received["amount"])
	assert.Equal(t, "DRAFT", received["status"])
	assert.Equal(t, "2026-10-01", received["endDate"])
}

func TestContractClient_NumericID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42}`))
	}))
	defer server.Close()

	client := NewHTTPContractClient(server.URL, 5*time.Second)

	id, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestContractClient_Non2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPContractClient(server.URL, 5*time.Second)

	_, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestContractClient_MissingID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"DRAFT"}`))
	}))
	defer server.Close()

	client := NewHTTPContractClient(server.URL, 5*time.Second)

	_, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestContractClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPContractClient(server.URL, 50*time.Millisecond)

	_, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.Error(t, err)
}

func TestContractClient_Unreachable(t *testing.T) {
	t.Parallel()

	// A closed port: the dial fails fast.
	client := NewHTTPContractClient("http://127.0.0.1:1", 1*time.Second)

	_, err := client.CreateContractFromAcceptedApplication(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
