// internal/domain/order/gateway.go
package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Gateway submits an assembled order snapshot to the backend
type Gateway interface {
	Submit(ctx context.Context, snapshot *Snapshot) (*SubmitResult, error)
}

// HTTPGateway submits orders to the order submission endpoint
type HTTPGateway struct {
	submitURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPGateway creates a gateway bound to the configured endpoint
func NewHTTPGateway(cfg *config.Config, logger *logrus.Logger) *HTTPGateway {
	return &HTTPGateway{
		submitURL: cfg.Gateway.OrderSubmitURL,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.SubmitTimeout,
		},
		logger: logger,
	}
}

// Submit posts the snapshot and returns the created order identifier.
// Failures come back as *SubmissionError with the server-provided message
// when one can be parsed, or a generic fallback otherwise.
func (g *HTTPGateway) Submit(ctx context.Context, snapshot *Snapshot) (*SubmitResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.submitURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.WithError(err).Error("Order submission request failed")
		return nil, &SubmissionError{Message: "order submission failed, please try again"}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: "order submission failed, please try again"}
	}

	g.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"latency":     time.Since(start),
		"item_count":  len(snapshot.Items),
	}).Info("Order submission completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, g.parseError(resp.StatusCode, respBody)
	}

	var result SubmitResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	return &result, nil
}

// parseError extracts the server error body, falling back to a generic
// message when the body cannot be parsed.
func (g *HTTPGateway) parseError(statusCode int, body []byte) *SubmissionError {
	var parsed struct {
		Error   string        `json:"error"`
		Details []FieldDetail `json:"details"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == "" {
		return &SubmissionError{
			StatusCode: statusCode,
			Message:    "order submission failed, please try again",
		}
	}

	return &SubmissionError{
		StatusCode: statusCode,
		Message:    parsed.Error,
		Details:    parsed.Details,
	}
}
