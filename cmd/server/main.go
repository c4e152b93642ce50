/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ClerkDesk compliance deadline server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Build the business calendar (file-backed or bundled table)
  4. Wire generator, lock predicate, series planner and tracker
  5. Load persisted state and regenerate obligations
  6. Start HTTP server and background refresher with graceful shutdown

CONFIGURATION:
  Flags override environment variables, which override defaults:
    -port      / PORT                     HTTP port (default: 8080)
    -db        / DB_PATH                  SQLite path (default: clerkdesk.db)
    -refresh   / STATUS_REFRESH_INTERVAL  status re-run (default: 60s)
    -regen     / REGEN_INTERVAL           full regeneration (default: 6h)
    -holidays  / HOLIDAYS_FILE            JSON holiday table (default: bundled)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the background refresher
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/clerkdesk.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with a custom jurisdiction calendar
  ./server -holidays="./holidays-2027.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/refresher.go: Background status refresh
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clerkdesk/compliance-engine/api"
	"github.com/clerkdesk/compliance-engine/engine"
	"github.com/clerkdesk/compliance-engine/rules"
	"github.com/clerkdesk/compliance-engine/store/sqlite"
)

func main() {
	// .env is optional; absence is the normal case outside dev.
	if err := godotenv.Load(); err == nil {
		log.Println("[Main] Loaded configuration from .env")
	}

	// Flags (defaults come from the environment)
	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "clerkdesk.db"), "SQLite database path")
	refreshEvery := flag.Duration("refresh", envDuration("STATUS_REFRESH_INTERVAL", 60*time.Second), "status refresh interval")
	regenEvery := flag.Duration("regen", envDuration("REGEN_INTERVAL", 6*time.Hour), "full regeneration interval")
	holidaysFile := flag.String("holidays", envStr("HOLIDAYS_FILE", ""), "JSON holiday table (empty = bundled)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Business calendar
	holidayTable := engine.DefaultHolidayCalendar()
	if *holidaysFile != "" {
		holidayTable, err = engine.NewTableCalendarFromFile(*holidaysFile)
		if err != nil {
			log.Fatalf("Failed to load holiday table: %v", err)
		}
		log.Printf("[Main] Holiday table loaded from %s", *holidaysFile)
	}
	calendar := engine.NewBusinessCalendar(holidayTable)

	// Wire the engine
	table := rules.DefaultTable()
	gen := rules.NewGenerator(table, calendar)
	locker := rules.NewLockPredicate(table)
	planner := engine.NewSeriesPlanner(calendar)
	tracker := engine.NewTracker(gen, locker, planner, store, store, nil)

	if err := tracker.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load tracker state: %v", err)
	}

	// Background refresher
	refresher := api.NewRefresher(tracker)
	refresher.RefreshInterval = *refreshEvery
	refresher.RegenInterval = *regenEvery
	refresher.Start()
	defer refresher.Stop()

	// Create router and server
	handler := api.NewHandler(tracker, holidayTable.Dates())
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// =============================================================================
// CONFIG HELPERS
// =============================================================================

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
		log.Printf("[Main] Ignoring malformed %s=%q", key, v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[Main] Ignoring malformed %s=%q", key, v)
	}
	return fallback
}
