package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smartfreelance_backend/internal/logger"
)

// ContractCreateRequest is the payload handed to the Contract service
// when an application is accepted. Associations are by id only; there
// is no shared persistence between services.
type ContractCreateRequest struct {
	ClientID      string   `json:"clientId"`
	FreelancerID  string   `json:"freelancerId"`
	ApplicationID string   `json:"offerApplicationId"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Terms         string   `json:"terms,omitempty"`
	Amount        float64  `json:"amount"`
	StartDate     string   `json:"startDate"`
	EndDate       *string  `json:"endDate,omitempty"`
	Status        string   `json:"status"`
}

// ContractClient provisions a contract for an accepted application.
// Implementations must not retry; the acceptance workflow treats any
// error as a degraded (not failed) outcome.
type ContractClient interface {
	CreateContractFromAcceptedApplication(ctx context.Context, req *ContractCreateRequest) (string, error)
}

type HTTPContractClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPContractClient builds a client with a bounded per-attempt
// timeout. The timeout is the only resilience mechanism: a reconciling
// sweep, not retries, is the designed way to heal failed provisioning.
func NewHTTPContractClient(baseURL string, timeout time.Duration) *HTTPContractClient {
	return &HTTPContractClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPContractClient) CreateContractFromAcceptedApplication(ctx context.Context, req *ContractCreateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal contract request: %w", err)
	}

	url := c.baseURL + "/api/contracts"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build contract request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("contract service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("contract service returned status %d", resp.StatusCode)
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode contract response: %w", err)
	}
	contractID := extractID(payload["id"])
	if contractID == "" {
		return "", fmt.Errorf("contract created but response body missing id")
	}

	logger.CtxInfo(ctx, "contract created",
		"contract_id", contractID,
		"application_id", req.ApplicationID,
		"client_id", req.ClientID,
		"freelancer_id", req.FreelancerID,
	)
	return contractID, nil
}

// extractID accepts both string and numeric ids; the Contract service
// has used each across revisions.
func extractID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
