package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/config"
	"github.com/asealnassar/crna-prep-hub/internal/db"
	"github.com/asealnassar/crna-prep-hub/internal/interview"
	"github.com/asealnassar/crna-prep-hub/internal/llm"
	"github.com/asealnassar/crna-prep-hub/internal/observability"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
	"github.com/asealnassar/crna-prep-hub/internal/server/ratelimit"
)

// Store is the persistence surface the handlers depend on. *db.DB
// implements it; tests substitute stubs.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID, email string) (*db.Profile, error)
	IncrementInterviewCount(ctx context.Context, userID uuid.UUID) error
	SetTierByEmail(ctx context.Context, email, tier string) error

	ListSchools(ctx context.Context, filter db.SchoolFilter) ([]*db.School, error)
	GetSchool(ctx context.Context, id uuid.UUID) (*db.School, error)
	CreateSchool(ctx context.Context, s *db.School) (uuid.UUID, error)
	UpdateSchool(ctx context.Context, s *db.School) error
	DeleteSchool(ctx context.Context, id uuid.UUID) error
	ListSavedSchools(ctx context.Context, userID uuid.UUID) ([]*db.School, error)
	SaveSchool(ctx context.Context, userID, schoolID uuid.UUID) error
	UnsaveSchool(ctx context.Context, userID, schoolID uuid.UUID) error

	ListSponsors(ctx context.Context) ([]*db.Sponsor, error)
	CreateSponsor(ctx context.Context, s *db.Sponsor) (uuid.UUID, error)
	UpdateSponsor(ctx context.Context, s *db.Sponsor) error
	DeleteSponsor(ctx context.Context, id uuid.UUID) error

	ListInterviewInfo(ctx context.Context) ([]*db.InterviewInfo, error)
	UpsertInterviewInfo(ctx context.Context, i *db.InterviewInfo) error
	CreateExpeditedRequest(ctx context.Context, r *db.ExpeditedRequest) (uuid.UUID, error)

	CreateReport(ctx context.Context, r *db.Report) (uuid.UUID, error)
	ListReports(ctx context.Context) ([]*db.Report, error)
	ResolveReport(ctx context.Context, id uuid.UUID) error
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// modelAdapter bridges the llm chat client to the interview engine's
// collaborator contract.
type modelAdapter struct {
	client llm.Client
}

func (a modelAdapter) Chat(ctx context.Context, instruction string, messages []interview.Message) (string, error) {
	msgs := make([]llm.Message, len(messages))
	for i, m := range messages {
		msgs[i] = llm.Message{Role: llm.Role(m.Role), Content: m.Content}
	}
	return a.client.Chat(ctx, instruction, msgs)
}

// usageRecorder bridges the store's counter increment to the interview
// engine's usage boundary.
type usageRecorder struct {
	store Store
}

func (u usageRecorder) RecordSessionStart(ctx context.Context, userID uuid.UUID) error {
	return u.store.IncrementInterviewCount(ctx, userID)
}

// Server is the HTTP API server.
type Server struct {
	httpServer  *http.Server
	store       Store
	interviews  *interview.Manager
	rateLimiter *ratelimit.Limiter
	verifier    *JWTVerifier
	payments    *PaymentClient
	validate    *validator.Validate
	llmTimeout  time.Duration
	closers     []io.Closer
}

// New connects the database and the configured LLM provider and builds the
// server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   llmAPIKey(cfg),
		Model:    cfg.LLMModel,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := newServer(cfg, database, modelAdapter{client: llmClient})
	s.closers = append(s.closers, llmClient, closerFunc(func() error {
		database.Close()
		return nil
	}))
	return s, nil
}

func llmAPIKey(cfg *config.Config) string {
	if cfg.LLMProvider == "gemini" {
		return cfg.GeminiAPIKey
	}
	return cfg.AnthropicAPIKey
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// newServer wires handlers against the given store and model. Split from
// New so tests can inject stubs.
func newServer(cfg *config.Config, store Store, model interview.ModelClient) *Server {
	s := &Server{
		store: store,
		interviews: interview.NewManager(model, usageRecorder{store: store}, interview.Options{
			MaxTurns:        cfg.InterviewMaxTurns,
			StrictExclusion: cfg.InterviewStrictExclusion,
		}),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		verifier:    NewJWTVerifier(cfg.JWTSecret),
		payments:    NewPaymentClient(cfg),
		validate:    validator.New(),
		llmTimeout:  time.Duration(cfg.LLMTimeoutSecs) * time.Second,
	}

	auth := middleware.Auth(s.verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Interview session endpoints.
	mux.Handle("POST /interview/start", auth(http.HandlerFunc(s.handleStartInterview)))
	mux.Handle("POST /interview/{session_id}/answer", auth(http.HandlerFunc(s.handleSubmitAnswer)))
	mux.Handle("POST /interview/{session_id}/reset", auth(http.HandlerFunc(s.handleResetInterview)))
	mux.Handle("GET /interview/{session_id}", auth(http.HandlerFunc(s.handleInterviewSnapshot)))

	// Schools directory. Reads are public, writes are admin-only.
	mux.HandleFunc("GET /schools", s.handleListSchools)
	mux.HandleFunc("GET /schools/{id}", s.handleGetSchool)
	mux.Handle("POST /schools", auth(http.HandlerFunc(s.handleCreateSchool)))
	mux.Handle("PUT /schools/{id}", auth(http.HandlerFunc(s.handleUpdateSchool)))
	mux.Handle("DELETE /schools/{id}", auth(http.HandlerFunc(s.handleDeleteSchool)))

	// Profile and saved schools.
	mux.Handle("GET /me", auth(http.HandlerFunc(s.handleGetMe)))
	mux.Handle("GET /me/saved-schools", auth(http.HandlerFunc(s.handleListSavedSchools)))
	mux.Handle("POST /me/saved-schools/{school_id}", auth(http.HandlerFunc(s.handleSaveSchool)))
	mux.Handle("DELETE /me/saved-schools/{school_id}", auth(http.HandlerFunc(s.handleUnsaveSchool)))

	// Sponsors.
	mux.HandleFunc("GET /sponsors", s.handleListSponsors)
	mux.Handle("POST /sponsors", auth(http.HandlerFunc(s.handleCreateSponsor)))
	mux.Handle("PUT /sponsors/{id}", auth(http.HandlerFunc(s.handleUpdateSponsor)))
	mux.Handle("DELETE /sponsors/{id}", auth(http.HandlerFunc(s.handleDeleteSponsor)))

	// School interview info, gated to the ultimate tier.
	mux.Handle("GET /interview-info", auth(http.HandlerFunc(s.handleListInterviewInfo)))
	mux.Handle("PUT /interview-info", auth(http.HandlerFunc(s.handleUpsertInterviewInfo)))
	mux.Handle("POST /interview-info/requests", auth(http.HandlerFunc(s.handleCreateExpeditedRequest)))

	// Data error reports.
	mux.Handle("POST /reports", auth(http.HandlerFunc(s.handleCreateReport)))
	mux.Handle("GET /reports", auth(http.HandlerFunc(s.handleListReports)))
	mux.Handle("POST /reports/{id}/resolve", auth(http.HandlerFunc(s.handleResolveReport)))
	mux.Handle("DELETE /reports/{id}", auth(http.HandlerFunc(s.handleDeleteReport)))

	// Payments. The webhook is unauthenticated; its body is verified by
	// signature instead.
	mux.Handle("POST /checkout", auth(http.HandlerFunc(s.handleCheckout)))
	mux.HandleFunc("POST /webhook/payments", s.handlePaymentWebhook)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		observability.Logger().Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	observability.Logger().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			observability.Logger().Error("failed to close resource", "error", err)
		}
	}

	observability.Logger().Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces per-client token buckets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging attaches a request-scoped logger with a request id and logs
// completion.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.WithRequestID(r.Context(), uuid.NewString())
		log := observability.LoggerFromContext(ctx)
		log.Info("request started", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
		log.Info("request completed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.Logger().Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromStatus maps an error through HTTPStatus and writes it.
func (s *Server) errorFromStatus(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	s.errorResponse(w, status, msg)
}

// extractClientID identifies the client by IP for rate limiting.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// requireAdmin loads the caller's profile and checks the admin flag.
func (s *Server) requireAdmin(r *http.Request) (*db.Profile, error) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil || !profile.IsAdmin {
		return nil, &ErrForbidden{Reason: "admin access required"}
	}
	return profile, nil
}
