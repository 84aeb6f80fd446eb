package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"adjja/internal/adapters/email"
	"adjja/internal/adapters/http/middleware"
	"adjja/internal/adapters/http/perf"
	accountStore "adjja/internal/adapters/storage/account"
	classStore "adjja/internal/adapters/storage/academyclass"
	coachStore "adjja/internal/adapters/storage/coach"
	courseStore "adjja/internal/adapters/storage/course"
	enrollmentStore "adjja/internal/adapters/storage/enrollment"
	planStore "adjja/internal/adapters/storage/plan"
	studentStore "adjja/internal/adapters/storage/student"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	StudentStore    studentStore.Store
	CoachStore      coachStore.Store
	ClassStore      classStore.Store
	EnrollmentStore enrollmentStore.Store
	PlanStore       planStore.Store
	CourseStore     courseStore.Store
	VideoStore      courseStore.VideoStore
}

// loadCSRFKey reads the CSRF secret from ADJJA_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("ADJJA_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ADJJA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("ADJJA_ENV") == "production" {
		log.Fatal("ADJJA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ADJJA_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// staticRoot is the directory HTML pages are served from (set by NewMux)
var staticRoot string

// Global session store instance
var sessions *middleware.SessionStore

// Global wizard session registry (set by NewMux)
var wizardRegistry *wizardSessions

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// portalURL is the absolute portal address used in outbound email.
var portalURL = "https://portal.adjja.com"

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	staticRoot = staticDir
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	wizardRegistry = newWizardSessions()
	middleware.SecureCookies = os.Getenv("ADJJA_ENV") == "production"
	if u := os.Getenv("ADJJA_PORTAL_URL"); u != "" {
		portalURL = u
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
