package security

import (
	"fmt"
	"time"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

// Sweeper is the maintenance face of a store: remove entries that are stale
// as of now, report how many went.
type Sweeper interface {
	SweepExpired(now time.Time) int
}

// Cleaner periodically sweeps the session store and the attempt tracker for
// expired entries. Both stores expire entries lazily on read, so the sweep is
// purely memory reclamation; a failing tick is logged and the next tick runs
// normally.
//
// The cleaner is constructed stopped. The application's composition root
// calls Start once at startup and Stop on shutdown.
type Cleaner struct {
	cfg      *config.Config
	log      logger.Interface
	sessions Sweeper
	attempts Sweeper

	// interval overrides the configured cleanup interval when non-zero.
	interval time.Duration

	running bool
	ticker  *time.Ticker
	done    chan struct{}
}

// NewCleaner -.
func NewCleaner(cfg *config.Config, log logger.Interface, sessions, attempts Sweeper) *Cleaner {
	return &Cleaner{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		attempts: attempts,
	}
}

func (c *Cleaner) tickInterval() time.Duration {
	if c.interval > 0 {
		return c.interval
	}

	return c.cfg.Security.CleanupInterval()
}

// Start launches the background sweep goroutine. Calling Start on a running
// cleaner is a no-op.
func (c *Cleaner) Start() {
	if c.running {
		return
	}

	c.running = true
	c.ticker = time.NewTicker(c.tickInterval())
	c.done = make(chan struct{})

	// the loop owns its ticker and done channel; Stop never touches
	// anything the goroutine reads except through them
	go c.loop(c.ticker, c.done)

	c.log.Info("security - cleaner - started, interval %s", c.tickInterval())
}

func (c *Cleaner) loop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-ticker.C:
			c.sweep()
			// re-read the interval so runtime config changes take effect
			ticker.Reset(c.tickInterval())
		case <-done:
			return
		}
	}
}

// sweep runs one maintenance pass. A panic in either store is contained here
// so the recurring task never dies.
func (c *Cleaner) sweep() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error(fmt.Errorf("security - cleaner - sweep: %v", r))
		}
	}()

	now := time.Now()

	sessions := c.sessions.SweepExpired(now)
	attempts := c.attempts.SweepExpired(now)

	if sessions > 0 || attempts > 0 {
		c.log.Info("security - cleaner - swept %d sessions, %d attempt records", sessions, attempts)
	}
}

// Stop cancels the background task. Safe to call on a stopped cleaner.
func (c *Cleaner) Stop() {
	if !c.running {
		return
	}

	c.running = false

	c.ticker.Stop()
	close(c.done)

	c.log.Info("security - cleaner - stopped")
}
