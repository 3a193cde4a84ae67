// Package queue fans account sync jobs out to a fixed pool of workers.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// AccountSyncer applies one federated account patch.
type AccountSyncer interface {
	SyncAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error)
}

// Result summarises a finished run.
type Result struct {
	Synced int64 `json:"synced"`
	Failed int64 `json:"failed"`
}

// Dispatcher routes account patches to workers by hashing the account id, so
// patches for the same account are applied in submission order.
type Dispatcher struct {
	workers []chan domain.AccountPatch
	syncer  AccountSyncer
	log     zerolog.Logger

	wg     sync.WaitGroup
	synced atomic.Int64
	failed atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, syncer AccountSyncer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AccountPatch, numWorkers),
		syncer:  syncer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccountPatch, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a patch to the worker responsible for its account id. It
// blocks while that worker's buffer is full and returns ctx.Err() once ctx is
// done.
func (d *Dispatcher) Enqueue(ctx context.Context, patch domain.AccountPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case d.workers[d.shardIndex(patch.ID)] <- patch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting patches and waits for the workers to finish.
func (d *Dispatcher) Close() Result {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
	return Result{Synced: d.synced.Load(), Failed: d.failed.Load()}
}

// shardIndex maps an account id deterministically to a worker index. Patches
// without an id create new accounts and may land on any worker.
func (d *Dispatcher) shardIndex(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccountPatch) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case patch, ok := <-ch:
			if !ok {
				return
			}
			if _, err := d.syncer.SyncAccount(ctx, patch); err != nil {
				d.failed.Add(1)
				d.log.Error().Err(err).
					Str("account_id", patch.ID).
					Int("worker_id", id).
					Msg("account sync failed")
				continue
			}
			d.synced.Add(1)
		}
	}
}
