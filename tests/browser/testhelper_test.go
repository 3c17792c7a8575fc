package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	emailPkg "fitplan/internal/adapters/email"
	web "fitplan/internal/adapters/http"
	"fitplan/internal/adapters/http/middleware"
	"fitplan/internal/adapters/storage"
	accountStore "fitplan/internal/adapters/storage/account"
	planStore "fitplan/internal/adapters/storage/plan"
	profileStore "fitplan/internal/adapters/storage/profile"
	"fitplan/internal/application/orchestrators"
	"fitplan/internal/application/preview"
	accountDomain "fitplan/internal/domain/account"

	"math/rand"

	"github.com/google/uuid"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	tmpDir  string
}

const (
	testEmail    = "owner@test.com"
	testPassword = "TestPass123!long"
)

// newTestApp creates a fully wired app with a temp SQLite DB and starts an
// HTTP server. Requires FITPLAN_BROWSER_TESTS=1 and installed Playwright
// browsers; skipped otherwise.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	if os.Getenv("FITPLAN_BROWSER_TESTS") != "1" {
		t.Skip("set FITPLAN_BROWSER_TESTS=1 to run browser tests")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialize test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	plans := planStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore: acctStore,
		PlanStore:    plans,
		ProfileStore: profileStore.NewSQLiteStore(db),
	}

	// Seed an activated owner so tests can log in directly.
	acct := accountDomain.Account{
		ID:        uuid.New().String(),
		Email:     testEmail,
		Role:      accountDomain.RoleOwner,
		Status:    accountDomain.StatusActive,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword(testPassword); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	if err := acctStore.Save(context.Background(), acct); err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	web.SetEmailSender(emailPkg.NewNoopSender(), "FitPlan <noreply@fitplan.test>", "")
	web.SetPlanSource(orchestrators.TemplateSource{Rng: rand.New(rand.NewSource(time.Now().UnixNano()))})
	web.RateLimitPerSecond = 1000

	pm := preview.NewManager(preview.Deps{
		Upserter:   plans,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	})

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux("static", stores, pm)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		tmpDir:  tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
