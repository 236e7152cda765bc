package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/ai"
	"github.com/jobalign/jobalign-api/internal/analysis"
	"github.com/jobalign/jobalign-api/internal/billing"
	"github.com/jobalign/jobalign-api/internal/config"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/jobsearch"
	"github.com/jobalign/jobalign-api/internal/oauth"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
	"github.com/jobalign/jobalign-api/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	database    *db.DB
	cfg         *config.AppConfig
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	analyzer    *analysis.Analyzer
	jobSearch   *jobsearch.Service
	billing     *billing.Service
	social      map[string]*oauth.Provider
	linkedIn    *oauth.Provider
	states      *stateStore
	validator   *validator.Validate
}

// New creates a new server instance
func New(cfg *config.AppConfig) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		store:     database,
		database:  database,
		cfg:       cfg,
		validator: validator.New(),
		states:    newStateStore(),
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(s.store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// AI analysis (falls back to canned responses without a key)
	s.analyzer = analysis.NewAnalyzer(ai.NewClient(cfg.GroqAPIKey, cfg.GroqModel))

	// Job recommendation providers, tried in order
	var providers []jobsearch.Provider
	if linkedin := jobsearch.NewLinkedInClient(cfg.RapidAPIKey); linkedin.Configured() {
		providers = append(providers, linkedin)
	}
	if adzuna := jobsearch.NewAdzunaClient(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry); adzuna.Configured() {
		providers = append(providers, adzuna)
	}
	s.jobSearch = jobsearch.NewService(providers...)

	// Stripe billing
	s.billing = billing.NewService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// OAuth providers
	s.social = make(map[string]*oauth.Provider)
	if creds := (oauth.Credentials{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret, RedirectURL: cfg.GoogleRedirectURL}); creds.Configured() {
		s.social["google"] = oauth.NewGoogle(creds)
	}
	if creds := (oauth.Credentials{ClientID: cfg.GitHubClientID, ClientSecret: cfg.GitHubClientSecret, RedirectURL: cfg.GitHubRedirectURL}); creds.Configured() {
		s.social["github"] = oauth.NewGitHub(creds)
	}
	if creds := (oauth.Credentials{ClientID: cfg.LinkedInClientID, ClientSecret: cfg.LinkedInClientSecret, RedirectURL: cfg.LinkedInRedirectURL}); creds.Configured() {
		s.linkedIn = oauth.NewLinkedIn(creds)
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // AI calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API route table
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("GET /api/auth/me", protected(s.handleMe))
	mux.Handle("PUT /api/auth/password", protected(s.handleUpdatePassword))
	mux.HandleFunc("GET /api/auth/{provider}/login", s.handleOAuthLogin)
	mux.HandleFunc("GET /api/auth/{provider}/callback", s.handleOAuthCallback)

	// Resumes
	mux.Handle("POST /api/resume/upload", protected(s.handleUploadResume))
	mux.Handle("GET /api/resume/list", protected(s.handleListResumes))
	mux.Handle("GET /api/resume/{id}", protected(s.handleGetResume))
	mux.Handle("DELETE /api/resume/{id}", protected(s.handleDeleteResume))

	// Job descriptions
	mux.Handle("POST /api/job/upload", protected(s.handleUploadJob))
	mux.Handle("POST /api/job/from-url", protected(s.handleJobFromURL))
	mux.Handle("GET /api/job/list", protected(s.handleListJobs))
	mux.Handle("GET /api/job/{id}", protected(s.handleGetJob))
	mux.Handle("DELETE /api/job/{id}", protected(s.handleDeleteJob))

	// Matching
	mux.Handle("POST /api/match/calculate", protected(s.handleCalculateMatch))
	mux.Handle("POST /api/match/batch", protected(s.handleBatchMatch))
	mux.Handle("GET /api/match/history", protected(s.handleMatchHistory))
	mux.Handle("GET /api/match/{id}", protected(s.handleGetMatch))

	// Optimization
	mux.Handle("POST /api/optimize/resume", protected(s.handleOptimizeResume))
	mux.Handle("GET /api/optimize/suggestions/{match_id}", protected(s.handleOptimizationSuggestions))

	// Interview prep
	mux.Handle("POST /api/interview/generate", protected(s.handleGenerateQuestions))
	mux.Handle("POST /api/interview/follow-up", protected(s.handleFollowUp))
	mux.Handle("POST /api/interview/answer-suggestions", protected(s.handleAnswerSuggestions))
	mux.Handle("GET /api/interview/categories/{job_id}", protected(s.handleQuestionCategories))

	// Recommendations
	mux.Handle("GET /api/recommendations/jobs", protected(s.handleRecommendedJobs))
	mux.Handle("POST /api/recommendations/{id}/status", protected(s.handleApplicationStatus))
	mux.Handle("GET /api/recommendations/stats", protected(s.handleRecommendationStats))

	// LinkedIn identity
	mux.Handle("GET /api/linkedin/auth-url", protected(s.handleLinkedInAuthURL))
	mux.HandleFunc("GET /api/linkedin/callback", s.handleLinkedInCallback)
	mux.Handle("GET /api/linkedin/status", protected(s.handleLinkedInStatus))
	mux.Handle("POST /api/linkedin/disconnect", protected(s.handleLinkedInDisconnect))

	// Billing
	mux.HandleFunc("GET /api/billing/prices", s.handleBillingPrices)
	mux.Handle("POST /api/billing/checkout", protected(s.handleBillingCheckout))
	mux.Handle("GET /api/billing/subscription", protected(s.handleBillingSubscription))
	mux.Handle("POST /api/billing/cancel", protected(s.handleBillingCancel))
	mux.HandleFunc("POST /api/billing/webhook", s.handleBillingWebhook)

	// Dashboard
	mux.Handle("GET /api/dashboard/stats", protected(s.handleDashboardStats))
	mux.Handle("GET /api/dashboard/recent-matches", protected(s.handleRecentMatches))
	mux.Handle("GET /api/dashboard/activity", protected(s.handleRecentActivity))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.database != nil {
		s.database.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.FrontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMe returns the authenticated user's profile
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// logActivity records a user action; failures are logged, never surfaced
func (s *Server) logActivity(r *http.Request, userID uuid.UUID, actionType, description string, metadata map[string]any) {
	uid := &userID
	if userID == uuid.Nil {
		uid = nil
	}
	ip := s.extractClientID(r)
	if err := s.store.LogActivity(r.Context(), uid, actionType, description, metadata, ip, r.UserAgent()); err != nil {
		log.Printf("Failed to log activity %q: %v", actionType, err)
	}
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is deliberately
// ignored until a trusted proxy sits in front.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
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

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
