package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"rfidcam/camera"
	"rfidcam/ledger"
	"rfidcam/owners"
	"rfidcam/protocol"
)

const (
	defaultIdleDelay = 100 * time.Millisecond
	defaultBuffer    = 1024
)

// LineReader yields lines from the card reader. ("", nil) means nothing
// arrived before the read timeout.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Capturer takes the photo for a scanned card.
type Capturer interface {
	Capture(uid string) (camera.Result, error)
}

// WorkerConfig holds the collaborators of a Worker.
type WorkerConfig struct {
	Source    LineReader
	Directory *owners.Directory
	Camera    Capturer
	Log       ledger.Appender
	Logger    *zap.Logger

	IdleDelay time.Duration // pause after each read (default 100ms)
	Buffer    int           // results channel capacity (default 1024)
}

// Worker reads card lines and runs every card through lookup, capture and
// logging, one card at a time in the order they were read. It is the only
// user of the source, camera and log.
type Worker struct {
	src    LineReader
	dir    *owners.Directory
	cam    Capturer
	ledger ledger.Appender
	log    *zap.Logger
	idle   time.Duration
	out    chan Result
}

// NewWorker creates a worker. Call Run to start it.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = defaultIdleDelay
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	return &Worker{
		src:    cfg.Source,
		dir:    cfg.Directory,
		cam:    cfg.Camera,
		ledger: cfg.Log,
		log:    cfg.Logger,
		idle:   cfg.IdleDelay,
		out:    make(chan Result, cfg.Buffer),
	}
}

// Results returns the channel results are published on. It is closed
// when Run returns.
func (w *Worker) Results() <-chan Result {
	return w.out
}

// Run processes reader lines until ctx is cancelled or the reader fails.
// A reader failure publishes a ConnectionLostUID result and is returned;
// cancellation returns ctx.Err(). Capture and log failures only affect
// the result of the card that caused them.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.out)

	for {
		line, err := w.src.ReadLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error("Reader connection lost", zap.Error(err))
			w.publish(ctx, connectionLost(err))
			return err
		}

		if evt, ok := protocol.Decode(line); ok {
			w.publish(ctx, w.Handle(evt))
		} else if line != "" {
			w.log.Debug("Ignoring reader line", zap.String("line", line))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.idle):
		}
	}
}

// Handle runs one card event through lookup, capture and logging and
// returns its result. Run calls it for every decoded line; it must not be
// called concurrently with Run.
func (w *Worker) Handle(evt protocol.CardEvent) (res Result) {
	uid := owners.Normalize(evt.UID)
	owner := w.dir.Lookup(uid)
	log := w.log.With(zap.String("uid", uid), zap.String("owner", owner))

	defer func() {
		if p := recover(); p != nil {
			log.Error("Card processing panicked", zap.Any("panic", p))
			res = failed(uid, owner, fmt.Errorf("internal error: %v", p))
		}
	}()

	shot, err := w.cam.Capture(uid)
	if err != nil {
		log.Warn("Capture failed", zap.Error(err))
		return failed(uid, owner, err)
	}

	rec := ledger.Record{Time: shot.Time, UID: uid, Owner: owner, Photo: shot.Path}
	if err := w.ledger.Append(rec); err != nil {
		// The photo stays on disk; it is the only trace of this scan.
		log.Warn("Log append failed", zap.String("photo", shot.Path), zap.Error(err))
		return failed(uid, owner, err)
	}

	log.Info("Card processed", zap.String("photo", shot.Path))
	return saved(uid, owner, filepath.Base(shot.Path))
}

func (w *Worker) publish(ctx context.Context, r Result) {
	select {
	case w.out <- r:
	case <-ctx.Done():
	}
}
