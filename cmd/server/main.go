package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "adjja/internal/adapters/email"
	web "adjja/internal/adapters/http"
	"adjja/internal/adapters/http/perf"
	"adjja/internal/adapters/storage"
	accountStore "adjja/internal/adapters/storage/account"
	classStore "adjja/internal/adapters/storage/academyclass"
	coachStore "adjja/internal/adapters/storage/coach"
	courseStore "adjja/internal/adapters/storage/course"
	enrollmentStore "adjja/internal/adapters/storage/enrollment"
	planStore "adjja/internal/adapters/storage/plan"
	studentStore "adjja/internal/adapters/storage/student"
	"adjja/internal/application/orchestrators"
	"adjja/internal/domain/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("ADJJA_DB", "adjja.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	pStore := planStore.NewSQLiteStore(timedDB)
	crsStore := courseStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		StudentStore:    studentStore.NewSQLiteStore(timedDB),
		CoachStore:      coachStore.NewSQLiteStore(timedDB),
		ClassStore:      classStore.NewSQLiteStore(timedDB),
		EnrollmentStore: enrollmentStore.NewSQLiteStore(timedDB),
		PlanStore:       pStore,
		CourseStore:     crsStore,
		VideoStore:      crsStore,
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("ADJJA_ADMIN_EMAIL", "admin@adjja.com")
	adminPassword := envOrDefault("ADJJA_ADMIN_PASSWORD", "change me on first login")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed default subscription plans
	seedPlanDeps := orchestrators.SeedPlansDeps{PlanStore: pStore}
	if err := orchestrators.ExecuteSeedPlans(context.Background(), seedPlanDeps, config.Default()); err != nil {
		log.Fatalf("failed to seed plans: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("ADJJA_RESEND_KEY")
	emailFrom := envOrDefault("ADJJA_RESEND_FROM", "ADJJA <noreply@adjja.com>")
	emailReply := envOrDefault("ADJJA_REPLY_TO", "info@adjja.com")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("ADJJA_ENV") == "production" {
			log.Println("WARNING: ADJJA_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set ADJJA_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing)
	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("ADJJA_ADDR", ":8080")
	log.Printf("ADJJA portal %s starting on %s (env=%s)", version, addr, envOrDefault("ADJJA_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
