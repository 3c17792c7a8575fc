package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	mrand "math/rand"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	emailPkg "fitplan/internal/adapters/email"
	web "fitplan/internal/adapters/http"
	"fitplan/internal/adapters/planai"
	"fitplan/internal/adapters/storage"
	accountStore "fitplan/internal/adapters/storage/account"
	planStore "fitplan/internal/adapters/storage/plan"
	profileStore "fitplan/internal/adapters/storage/profile"
	"fitplan/internal/application/orchestrators"
	"fitplan/internal/application/preview"
	"fitplan/internal/config"
	"fitplan/internal/worker"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"Config file path." type:"path" default:"fitplan.yaml"`
	Listen     string `help:"HTTP listen address (overrides config if set)."`
	RemindNow  bool   `name:"remind-now" help:"Send the milestone reminder digest once and exit."`
	GenCSRFKey bool   `name:"gen-csrf-key" help:"Print a fresh CSRF key and exit."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("fitplan"),
		kong.Description("Quarterly event planner for fitness businesses"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if CLI.GenCSRFKey {
		fmt.Println(generateHexKey())
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if CLI.Listen != "" {
		cfg.Listen = CLI.Listen
	}
	os.Setenv("FITPLAN_ENV", cfg.Env)
	if cfg.CSRFKey != "" {
		os.Setenv("FITPLAN_CSRF_KEY", cfg.CSRFKey)
	}

	// Accounts and profiles always live in SQLite; the plan store can be
	// switched to Postgres for multi-instance deployments.
	dsn := cfg.Database.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
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
		log.Fatalf("failed to initialize schema: %v", err)
	}

	// Query instrumentation: slow queries are logged above the threshold.
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	profStore := profileStore.NewSQLiteStore(timedDB)

	var plans planStore.Store = planStore.NewSQLiteStore(timedDB)
	if cfg.Database.Driver == "postgres" {
		pool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := planStore.InitPostgresSchema(context.Background(), pool); err != nil {
			log.Fatalf("failed to initialize postgres schema: %v", err)
		}
		plans = planStore.NewPostgresStore(pool)
		log.Println("Plan store backed by Postgres")
	}

	stores := &web.Stores{
		AccountStore: acctStore,
		PlanStore:    plans,
		ProfileStore: profStore,
	}

	// Configure email sender (shared by activation emails and reminders)
	var sender emailPkg.Sender
	if cfg.Email.Provider == "resend" && cfg.Email.APIKey != "" {
		sender = emailPkg.NewResendSender(cfg.Email.APIKey, cfg.Email.From)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Env == "production" {
			log.Println("WARNING: no email provider configured, delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set email.provider=resend for real delivery)")
		}
	}
	web.SetEmailSender(sender, cfg.Email.From, cfg.Email.ReplyTo)
	web.SetBaseURL(cfg.BaseURL)

	// Plan drafting strategy: the built-in quarterly generator, or the
	// external AI service when configured.
	if cfg.PlanSource == "ai" && cfg.AI.Endpoint != "" {
		web.SetPlanSource(orchestrators.AISource{
			Generator: planai.NewHTTPGenerator(cfg.AI.Endpoint, cfg.AI.APIKey),
		})
		log.Println("Plan source configured (AI service)")
	} else {
		web.SetPlanSource(orchestrators.TemplateSource{
			Rng: mrand.New(mrand.NewSource(time.Now().UnixNano())),
		})
		log.Println("Plan source configured (template generator)")
	}

	// Milestone reminder digest on a cron schedule.
	reminders := worker.NewReminderScheduler(plans, acctStore, sender, worker.ReminderConfig{
		Spec:        cfg.ReminderCron,
		WindowDays:  cfg.ReminderWindowDays,
		FromAddress: cfg.Email.From,
	})

	if CLI.RemindNow {
		sent, err := reminders.RunNow(context.Background())
		if err != nil {
			log.Fatalf("reminder digest failed: %v", err)
		}
		fmt.Printf("Sent reminder digests to %d accounts\n", sent)
		return
	}

	if err := reminders.Start(); err != nil {
		log.Fatalf("failed to start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	// Anonymous preview plans are parked in memory until the visitor signs
	// up; migration writes them through to the plan store.
	previewManager := preview.NewManager(preview.Deps{
		Upserter:   plans,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	})

	mux := web.NewMux(cfg.StaticDir, stores, previewManager)

	log.Printf("FitPlan %s starting on %s (env=%s, driver=%s)", version, cfg.Listen, cfg.Env, cfg.Database.Driver)
	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// generateHexKey mints a 32-byte hex key for --gen-csrf-key.
func generateHexKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
