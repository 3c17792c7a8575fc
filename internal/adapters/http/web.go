package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"fitplan/internal/adapters/email"
	"fitplan/internal/adapters/http/middleware"
	accountStore "fitplan/internal/adapters/storage/account"
	planStore "fitplan/internal/adapters/storage/plan"
	profileStore "fitplan/internal/adapters/storage/profile"
	"fitplan/internal/application/orchestrators"
	"fitplan/internal/application/preview"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	PlanStore    planStore.Store
	ProfileStore profileStore.Store
}

// loadCSRFKey reads the CSRF secret from FITPLAN_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("FITPLAN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("FITPLAN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("FITPLAN_ENV") == "production" {
		log.Fatal("FITPLAN_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set FITPLAN_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global preview manager (set by NewMux)
var previewManager *preview.Manager

// Global plan source (set by SetPlanSource)
var planSource orchestrators.PlanSource

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// baseURL is the externally reachable URL used in activation links.
var baseURL = "http://localhost:8080"

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetPlanSource selects the drafting strategy for plan builds
// (template generator or the external AI service).
func SetPlanSource(src orchestrators.PlanSource) {
	planSource = src
}

// SetBaseURL sets the public base URL used when composing activation links.
func SetBaseURL(u string) {
	if u != "" {
		baseURL = u
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, pm *preview.Manager) http.Handler {
	stores = s
	previewManager = pm
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("FITPLAN_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
