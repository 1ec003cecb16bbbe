package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

func newGateway(t *testing.T, url string) *HTTPGateway {
	t.Helper()
	cfg := &config.Config{}
	cfg.Gateway.OrderSubmitURL = url
	cfg.Gateway.SubmitTimeout = 5 * time.Second
	return NewHTTPGateway(cfg, logrus.New())
}

func sampleSnapshot() *Snapshot {
	state := cart.State{Items: []cart.LineItem{
		{ID: "p1", Name: "Widget", UnitPrice: 100, AvailableStock: 3, Quantity: 2},
	}}
	return NewSnapshot(
		state,
		Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+1234567"},
		Shipping{Address: "1 Analytical Way", City: "London"},
		Payment{Method: "transfer", ProofImage: "https://cdn.example.com/proof.jpg"},
		"leave at door",
		"",
	)
}

func TestSubmit_SuccessReturnsOrderID(t *testing.T) {
	var received map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderId":"ord-42"}`))
	}))
	defer server.Close()

	result, err := newGateway(t, server.URL).Submit(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "ord-42", result.OrderID)

	// Wire format carries the snapshot sections
	for _, key := range []string{"items", "customer", "shipping", "delivery", "payment", "totals"} {
		assert.Contains(t, received, key)
	}

	var payment Payment
	require.NoError(t, json.Unmarshal(received["payment"], &payment))
	assert.Equal(t, "https://cdn.example.com/proof.jpg", payment.ProofImage)

	var totals Totals
	require.NoError(t, json.Unmarshal(received["totals"], &totals))
	assert.Equal(t, int64(200), totals.Total)
}

func TestSubmit_ServerErrorBodyIsParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid order","details":[{"path":"customer.email","message":"invalid email"}]}`))
	}))
	defer server.Close()

	_, err := newGateway(t, server.URL).Submit(context.Background(), sampleSnapshot())

	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnprocessableEntity, serr.StatusCode)
	assert.Equal(t, "invalid order", serr.Message)
	require.Len(t, serr.Details, 1)
	assert.Equal(t, "customer.email", serr.Details[0].Path)
	assert.Contains(t, serr.Error(), "customer.email: invalid email")
}

func TestSubmit_UnparseableErrorBodyFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway blew up</html>"))
	}))
	defer server.Close()

	_, err := newGateway(t, server.URL).Submit(context.Background(), sampleSnapshot())

	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, "order submission failed, please try again", serr.Message)
}

func TestSubmit_TransportFailureIsSubmissionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newGateway(t, server.URL).Submit(context.Background(), sampleSnapshot())

	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "order submission failed, please try again", serr.Message)
}

func TestNewSnapshot_RecomputesTotalsFromItems(t *testing.T) {
	state := cart.State{Items: []cart.LineItem{
		{ID: "p1", UnitPrice: 100, AvailableStock: 5, Quantity: 3},
		{ID: "p2", UnitPrice: 250, AvailableStock: 2, Quantity: 1},
	}}

	snap := NewSnapshot(state, Customer{}, Shipping{}, Payment{Method: "cash"}, "", "")

	assert.Equal(t, int64(550), snap.Totals.Subtotal)
	assert.Equal(t, int64(550), snap.Totals.Total)

	// The snapshot owns its item slice
	state.Items[0].Quantity = 1
	assert.Equal(t, 3, snap.Items[0].Quantity)
}
