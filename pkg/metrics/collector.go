package metrics

import (
	"context"
	"time"

	"github.com/chartsync/chartsync/pkg/types"
)

// ReleaseLister reports the releases the tool currently knows about.
// Implemented by the reconciler engine.
type ReleaseLister interface {
	ListReleases(ctx context.Context) ([]types.ObservedRelease, error)
}

// Collector periodically polls the release inventory and updates the
// deployment gauges, doubling as a liveness signal for the helm binary.
type Collector struct {
	lister   ReleaseLister
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a collector polling at the given interval
func NewCollector(lister ReleaseLister, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Collector{
		lister:   lister,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	releases, err := c.lister.ListReleases(ctx)
	if err != nil {
		UpdateComponent("helm", false, err.Error())
		return
	}
	UpdateComponent("helm", true, "")

	ReleasesDeployed.Set(float64(len(releases)))

	ReleasesByStatus.Reset()
	statusCounts := make(map[string]int)
	for _, r := range releases {
		statusCounts[r.Status]++
	}
	for status, count := range statusCounts {
		ReleasesByStatus.WithLabelValues(status).Set(float64(count))
	}
}
