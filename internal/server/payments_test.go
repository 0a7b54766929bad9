package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asealnassar/crna-prep-hub/internal/db"
)

func signWebhook(secret string, payload []byte, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	p := NewPaymentClient(testConfig())
	payload := []byte(`{"type":"checkout.session.completed"}`)

	t.Run("valid", func(t *testing.T) {
		header := signWebhook("whsec_test", payload, time.Now())
		assert.NoError(t, p.VerifySignature(payload, header))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := signWebhook("other-secret", payload, time.Now())
		assert.Error(t, p.VerifySignature(payload, header))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := signWebhook("whsec_test", payload, time.Now().Add(-time.Hour))
		assert.Error(t, p.VerifySignature(payload, header))
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := signWebhook("whsec_test", payload, time.Now())
		assert.Error(t, p.VerifySignature([]byte(`{}`), header))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Error(t, p.VerifySignature(payload, "garbage"))
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "price_premium", r.Form.Get("line_items[0][price]"))
		assert.Equal(t, "nurse@example.com", r.Form.Get("customer_email"))
		assert.Equal(t, "premium", r.Form.Get("metadata[tier]"))
		fmt.Fprint(w, `{"id":"cs_123","url":"https://pay.example.com/cs_123"}`)
	}))
	defer backend.Close()

	p := NewPaymentClient(testConfig())
	p.apiURL = backend.URL

	url, err := p.CreateCheckoutSession(context.Background(), "premium", "nurse@example.com",
		"https://app.example.com/success", "https://app.example.com/cancel")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", url)

	_, err = p.CreateCheckoutSession(context.Background(), "platinum", "nurse@example.com", "", "")
	assert.Error(t, err, "unknown tier has no price")
}

func TestPaymentWebhookAppliesTier(t *testing.T) {
	_, store, handler := newTestServer(t, &scriptedModel{})

	userID := uuid.New()
	store.profiles[userID] = &db.Profile{ID: userID, Email: "nurse@example.com", SubscriptionTier: "free"}

	payload := `{
		"type": "checkout.session.completed",
		"data": {"object": {
			"customer_email": "nurse@example.com",
			"metadata": {"tier": "ultimate"}
		}}
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook/payments", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signWebhook("whsec_test", []byte(payload), time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ultimate", store.profiles[userID].SubscriptionTier)
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	_, store, handler := newTestServer(t, &scriptedModel{})

	userID := uuid.New()
	store.profiles[userID] = &db.Profile{ID: userID, Email: "nurse@example.com", SubscriptionTier: "free"}

	payload := `{"type":"checkout.session.completed","data":{"object":{"customer_email":"nurse@example.com","metadata":{"tier":"ultimate"}}}}`

	req := httptest.NewRequest(http.MethodPost, "/webhook/payments", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signWebhook("wrong-secret", []byte(payload), time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "free", store.profiles[userID].SubscriptionTier)
}

func TestPaymentWebhookIgnoresOtherEvents(t *testing.T) {
	_, _, handler := newTestServer(t, &scriptedModel{})

	payload := `{"type":"invoice.paid","data":{"object":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/payments", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signWebhook("whsec_test", []byte(payload), time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
}

func TestCheckoutEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"url":"https://pay.example.com/cs_456"}`)
	}))
	defer backend.Close()

	s, _, handler := newTestServer(t, &scriptedModel{})
	s.payments.apiURL = backend.URL

	token := signToken(t, uuid.New(), "nurse@example.com")
	rec := doJSON(t, handler, http.MethodPost, "/checkout", token, CheckoutRequest{
		Tier:       "premium",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://pay.example.com/cs_456")

	// Tier outside the allowed set fails validation.
	rec = doJSON(t, handler, http.MethodPost, "/checkout", token, CheckoutRequest{
		Tier:       "platinum",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
