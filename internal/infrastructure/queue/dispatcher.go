package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
	"github.com/sxc/scholarhub/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes download audit events to a fixed set of workers using
// consistent hashing on the resource id, so events for one resource are
// persisted in order.
type Dispatcher struct {
	workers []chan domain.DownloadEvent
	auditor ports.DownloadAuditor
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, auditor ports.DownloadAuditor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.DownloadEvent, numWorkers),
		auditor: auditor,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.DownloadEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its resource. It
// never blocks the request path: when the worker channel is full the event
// is dropped and logged.
func (d *Dispatcher) Enqueue(event domain.DownloadEvent) {
	idx := d.shardIndex(event.ResourceID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("resource_id", event.ResourceID).
			Int("worker_id", idx).
			Msg("audit queue full, dropping download event")
	}
}

// shardIndex maps a resource id deterministically to a worker index.
func (d *Dispatcher) shardIndex(resourceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resourceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.DownloadEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.auditor.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("resource_id", event.ResourceID).
					Int("worker_id", id).
					Msg("download audit failed")
			}
		}
	}
}
