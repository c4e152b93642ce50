/*
refresher.go - Background status refresh and regeneration

PURPOSE:
  Task statuses are a function of "now"; without a periodic re-run the
  display goes stale as deadlines pass. The refresher re-runs the status
  machine on a short interval and a full regeneration on a long one, so
  rolling horizons pick up new years without restarts.

DESIGN:
  - Single background goroutine with two tickers
  - Both passes are idempotent; overlapping with user mutations is safe
    because the tracker serializes behind its mutex
  - Errors are logged, never fatal; the next tick retries

CONFIGURATION:
  - RefreshInterval: Status machine re-run (default: 60 seconds)
  - RegenInterval:   Full generation + reconciliation (default: 6 hours)

USAGE:
  refresher := NewRefresher(tracker)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - engine/status.go: The status machine being re-run
  - engine/tracker.go: Regenerate / RefreshStatuses
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
)

// Refresher keeps task statuses and generated horizons current.
type Refresher struct {
	Tracker         *engine.Tracker
	RefreshInterval time.Duration
	RegenInterval   time.Duration

	refreshTicker *time.Ticker
	regenTicker   *time.Ticker
	stop          chan bool
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// NewRefresher creates a refresher with the default intervals.
func NewRefresher(tracker *engine.Tracker) *Refresher {
	return &Refresher{
		Tracker:         tracker,
		RefreshInterval: 60 * time.Second,
		RegenInterval:   6 * time.Hour,
		stop:            make(chan bool),
	}
}

// Start begins the background loop.
func (rf *Refresher) Start() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	rf.refreshTicker = time.NewTicker(rf.RefreshInterval)
	rf.regenTicker = time.NewTicker(rf.RegenInterval)
	rf.wg.Add(1)

	go rf.run()

	log.Printf("[Refresher] Started: status every %v, regeneration every %v",
		rf.RefreshInterval, rf.RegenInterval)
}

// Stop stops the background loop.
func (rf *Refresher) Stop() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.refreshTicker != nil {
		rf.refreshTicker.Stop()
		rf.regenTicker.Stop()
		close(rf.stop)
		rf.wg.Wait()
		log.Println("[Refresher] Stopped")
	}
}

func (rf *Refresher) run() {
	defer rf.wg.Done()

	// Run immediately on start
	rf.refresh()

	for {
		select {
		case <-rf.refreshTicker.C:
			rf.refresh()
		case <-rf.regenTicker.C:
			rf.regenerate()
		case <-rf.stop:
			return
		}
	}
}

func (rf *Refresher) refresh() {
	if err := rf.Tracker.RefreshStatuses(context.Background()); err != nil {
		log.Printf("[Refresher] Status refresh failed: %v", err)
	}
}

func (rf *Refresher) regenerate() {
	if err := rf.Tracker.Regenerate(context.Background()); err != nil {
		log.Printf("[Refresher] Regeneration failed: %v", err)
	}
}

// RunNow triggers an immediate status refresh (for testing/admin).
func (rf *Refresher) RunNow() {
	rf.refresh()
}
