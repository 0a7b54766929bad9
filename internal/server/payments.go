package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asealnassar/crna-prep-hub/internal/config"
	"github.com/asealnassar/crna-prep-hub/internal/observability"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

const (
	defaultCheckoutAPI = "https://api.stripe.com/v1/checkout/sessions"

	// Webhook signatures older than this are rejected to limit replays.
	webhookTolerance = 5 * time.Minute
)

// PaymentClient creates checkout sessions with the external payment
// processor and verifies its webhook signatures. The processor owns all
// card handling; this service only maps a completed checkout to a tier.
type PaymentClient struct {
	httpClient      *http.Client
	apiURL          string
	secretKey       string
	webhookSecret   string
	premiumPriceID  string
	ultimatePriceID string
	now             func() time.Time
}

// NewPaymentClient builds a client from config.
func NewPaymentClient(cfg *config.Config) *PaymentClient {
	return &PaymentClient{
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		apiURL:          defaultCheckoutAPI,
		secretKey:       cfg.CheckoutSecretKey,
		webhookSecret:   cfg.WebhookSecret,
		premiumPriceID:  cfg.PremiumPriceID,
		ultimatePriceID: cfg.UltimatePriceID,
		now:             time.Now,
	}
}

// priceID maps a tier name to its configured price.
func (p *PaymentClient) priceID(tier string) (string, error) {
	switch tier {
	case "premium":
		return p.premiumPriceID, nil
	case "ultimate":
		return p.ultimatePriceID, nil
	default:
		return "", fmt.Errorf("no price configured for tier %q", tier)
	}
}

// CreateCheckoutSession starts a checkout for the given tier and returns
// the hosted payment page URL.
func (p *PaymentClient) CreateCheckoutSession(ctx context.Context, tier, email, successURL, cancelURL string) (string, error) {
	price, err := p.priceID(tier)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", price)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", email)
	form.Set("metadata[tier]", tier)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checkout API returned status %d", resp.StatusCode)
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout response has no URL")
	}

	return session.URL, nil
}

// VerifySignature checks the processor's webhook signature header, of the
// form "t=<unix>,v1=<hex hmac>" where the HMAC-SHA256 is computed over
// "<unix>.<payload>" with the shared webhook secret.
func (p *PaymentClient) VerifySignature(payload []byte, header string) error {
	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signature = v
		}
	}
	if timestamp == "" || signature == "" {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp: %w", err)
	}
	age := p.now().Sub(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// CheckoutRequest is the request body for POST /checkout.
type CheckoutRequest struct {
	Tier       string `json:"tier" validate:"required,oneof=premium ultimate"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// handleCheckout starts a checkout session for a tier upgrade.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	checkoutURL, err := s.payments.CreateCheckoutSession(r.Context(), req.Tier, identity.Email, req.SuccessURL, req.CancelURL)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("checkout session failed", "error", err)
		s.errorResponse(w, http.StatusBadGateway, "Failed to create checkout session")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"url": checkoutURL})
}

// webhookEvent is the subset of the processor's event payload this service
// reads.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			CustomerEmail   string `json:"customer_email"`
			CustomerDetails struct {
				Email string `json:"email"`
			} `json:"customer_details"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// handlePaymentWebhook applies tier upgrades on completed checkouts. The
// endpoint is unauthenticated; the body is trusted only after signature
// verification.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if err := s.payments.VerifySignature(payload, r.Header.Get("Stripe-Signature")); err != nil {
		observability.LoggerFromContext(r.Context()).Error("webhook signature rejected", "error", err)
		s.errorResponse(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid event payload")
		return
	}

	// Other event types are acknowledged so the processor stops retrying.
	if event.Type != "checkout.session.completed" {
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	email := event.Data.Object.CustomerEmail
	if email == "" {
		email = event.Data.Object.CustomerDetails.Email
	}
	tier := event.Data.Object.Metadata["tier"]
	if email == "" || (tier != "premium" && tier != "ultimate") {
		s.errorResponse(w, http.StatusBadRequest, "Event missing email or tier")
		return
	}

	if err := s.store.SetTierByEmail(r.Context(), email, tier); err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to apply tier upgrade", "email", email, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to apply upgrade")
		return
	}

	observability.LoggerFromContext(r.Context()).Info("tier upgrade applied", "tier", tier)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "processed"})
}
