package client

import (
	"sync"
	"time"

	"github.com/n0remac/meetcore/internal/logging"
	"github.com/n0remac/meetcore/internal/scheduler"
	"github.com/n0remac/meetcore/resource"
	"github.com/n0remac/meetcore/transport"
)

// StatsProvider queries the transport for a full statistics snapshot.
// The transport package's pion-backed peer connection satisfies this.
type StatsProvider interface {
	CollectStats() ([]transport.RawSection, error)
}

// collector is the C5 Stats Collector: disabled at creation, armed the
// moment a media-stats configuration update arrives, and self-scheduling
// thereafter until the orchestrator kills its token.
type collector struct {
	log      *logging.Logger
	provider StatsProvider
	token    *scheduler.Token

	mu          sync.Mutex
	active      bool
	interval    time.Duration
	allowlist   map[string][]string
	nextRequest int64

	send func(resource.UploadMediaStatsRequest)
}

func newCollector(log *logging.Logger, provider StatsProvider, token *scheduler.Token, send func(resource.UploadMediaStatsRequest)) *collector {
	return &collector{
		log:         log,
		provider:    provider,
		token:       token,
		nextRequest: 1,
		send:        send,
	}
}

// Configure applies a server-pushed {upload_interval_seconds, allowlist}
// pair. An interval of zero marks the collector inactive, so a tick that
// runs while inactive sends nothing and does not reschedule. Any other
// value starts the tick loop when the collector is inactive; when it is
// already active, the running loop keeps its schedule and picks up the new
// interval and allowlist on its next tick.
func (c *collector) Configure(cfg *resource.MediaStatsConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg == nil || cfg.UploadIntervalSeconds == 0 {
		c.active = false
		return
	}

	c.interval = time.Duration(cfg.UploadIntervalSeconds) * time.Second
	c.allowlist = cfg.Allowlist
	wasActive := c.active
	c.active = true

	if !wasActive {
		c.scheduleLocked()
	}
}

// scheduleLocked arms the very first tick immediately (§4.5): only the
// reschedule inside tick itself waits out the configured interval.
func (c *collector) scheduleLocked() {
	c.token.After(0, c.tick)
}

func (c *collector) tick() {
	start := time.Now()

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	allowlist := c.allowlist
	c.mu.Unlock()

	raw, err := c.provider.CollectStats()
	if err != nil {
		c.log.Error("failed to collect stats", err)
	} else {
		var sections []resource.StatsSection
		for _, s := range raw {
			if filtered := resource.FilterSection(allowlist, s.Kind, s.ID, s.Values); filtered != nil {
				sections = append(sections, *filtered)
			}
		}

		c.mu.Lock()
		reqID := c.nextRequest
		c.nextRequest++
		c.mu.Unlock()

		c.send(resource.UploadMediaStatsRequest{RequestID: reqID, Sections: sections})
	}

	c.mu.Lock()
	active := c.active
	interval := c.interval
	c.mu.Unlock()
	if !active || !c.token.Alive() {
		return
	}
	// Overruns do not accumulate: the next tick is interval from *this*
	// tick's start, not from now.
	elapsed := time.Since(start)
	wait := interval - elapsed
	if wait < 0 {
		wait = 0
	}
	c.token.After(wait, c.tick)
}
