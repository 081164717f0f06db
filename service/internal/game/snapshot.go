package game

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/rook/service/internal/cache"
	"github.com/sirupsen/logrus"
)

const snapshotTimeout = 2 * time.Second

// snapshotWriter mirrors one room's public view into Redis. Writes are
// applied by a single goroutine in submission order, and only the latest
// pending write is kept. Once dropped, the writer deletes the key and
// ignores later stores.
type snapshotWriter struct {
	code string
	log  *logrus.Entry

	store func(ctx context.Context, code string, data []byte) error
	drop  func(ctx context.Context, code string) error

	mu      sync.Mutex
	pending *snapshotOp
	running bool
	closed  bool
	idle    chan struct{}
}

type snapshotOp struct {
	data   []byte
	delete bool
}

func newSnapshotWriter(code string, log *logrus.Entry) *snapshotWriter {
	return &snapshotWriter{
		code:  code,
		log:   log,
		store: cache.StoreRoomSnapshot,
		drop:  cache.DeleteRoomSnapshot,
	}
}

// Store queues data, replacing any write not yet started.
func (w *snapshotWriter) Store(data []byte) {
	w.submit(&snapshotOp{data: data})
}

// Drop queues a delete of the key and closes the writer.
func (w *snapshotWriter) Drop() {
	w.submit(&snapshotOp{delete: true})
}

func (w *snapshotWriter) submit(op *snapshotOp) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if op.delete {
		w.closed = true
	}
	w.pending = op
	if !w.running {
		w.running = true
		w.idle = make(chan struct{})
		go w.run(w.idle)
	}
}

func (w *snapshotWriter) run(idle chan struct{}) {
	defer close(idle)
	for {
		w.mu.Lock()
		op := w.pending
		w.pending = nil
		if op == nil {
			w.running = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		var err error
		if op.delete {
			err = w.drop(ctx, w.code)
		} else {
			err = w.store(ctx, w.code, op.data)
		}
		cancel()
		if err != nil {
			w.log.WithError(err).WithField("delete", op.delete).Warn("Failed writing room snapshot")
		}
	}
}

// wait blocks until queued writes have been applied.
func (w *snapshotWriter) wait() {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()
	if idle != nil {
		<-idle
	}
}
