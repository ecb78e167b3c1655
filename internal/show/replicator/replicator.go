package replicator

import (
	"context"
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/pkg/metrics"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

// Job is one pending remote write.
type Job struct {
	Key  string
	Data []byte
}

// Replicator is the dedicated outbound worker for remote replication. The
// core hands it snapshots as messages; it performs the network calls on its
// own goroutine so business mutations never wait on the remote store.
//
// Replication is fire-and-forget: no retry, no backoff, no delivery
// confirmation. Failures are logged and counted, nothing more. Jobs may
// complete out of order relative to later local mutations; the last upload
// to reach the remote store wins.
type Replicator struct {
	storage core.Storage
	jobs    chan Job
	logger  log.Logger
}

// New creates a replicator writing through the given storage adapter.
func New(storage core.Storage, queueSize int) *Replicator {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Replicator{
		storage: storage,
		jobs:    make(chan Job, queueSize),
		logger:  log.WithName("replicator"),
	}
}

// Enqueue hands a remote write to the worker without blocking. When the
// queue is full the job is dropped; local state stays authoritative.
func (r *Replicator) Enqueue(key string, data []byte) {
	select {
	case r.jobs <- Job{Key: key, Data: data}:
	default:
		metrics.ReplicationTotal.WithLabelValues("dropped").Inc()
		r.logger.Warn("Replication queue full, dropping job", "key", key)
	}
}

// OnChange is the store subscription hook: every persisted mutation
// replicates the canonical snapshot, and roster mutations additionally
// replicate the roster object.
//
// Two ops are excluded. "end-show" clears local state after the archive
// handoff; uploading the empty snapshot would recreate the canonical
// object the archive move just retired. "refresh" is itself a download
// from the remote and must not echo straight back.
func (r *Replicator) OnChange(ev core.ChangeEvent) {
	if ev.Op == "end-show" || ev.Op == "refresh" {
		return
	}
	r.Enqueue(KeyCurrentShow, ev.Snapshot)
	if ev.Roster != nil {
		r.Enqueue(KeyDriverRoster, ev.Roster)
	}
}

// Run consumes the job queue until ctx is canceled.
func (r *Replicator) Run(ctx context.Context) error {
	if err := r.storage.CheckBucket(ctx); err != nil {
		// Offline start is fine; uploads will fail individually and be
		// logged until the remote store comes back.
		r.logger.Warn("Remote bucket check failed, continuing offline", "err", err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-r.jobs:
			r.process(job)
		}
	}
}

func (r *Replicator) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.storage.Upload(ctx, job.Key, job.Data); err != nil {
		metrics.ReplicationTotal.WithLabelValues("failed").Inc()
		r.logger.Warn("Replication failed", "key", job.Key, "err", err.Error())
		return
	}

	metrics.ReplicationTotal.WithLabelValues("success").Inc()
	r.logger.Debug("Replicated snapshot", "key", job.Key, "bytes", len(job.Data))
}
