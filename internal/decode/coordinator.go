// ABOUTME: Decode coordination with an isolated validation worker
// ABOUTME: Message-passing worker protocol, wall-clock timeout, chunked progress
package decode

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// DefaultTimeout is the wall-clock ceiling for a validation round-trip.
const DefaultTimeout = 60 * time.Second

// progressChunks is the number of simulated progress windows reported while
// decoding; the underlying full-file decode is atomic.
const progressChunks = 8

type msgKind int

const (
	msgProgress msgKind = iota
	msgValidated
	msgError
)

// message is the tagged union carried on the worker channel. The worker
// emits zero or more progress messages followed by exactly one terminal
// validated or error message.
type message struct {
	kind     msgKind
	progress float64
	note     string
	codec    string
	err      error
}

// ProgressFunc receives load progress in [0, 1] with a short status note.
type ProgressFunc func(progress float64, note string)

// Coordinator offloads source validation to an isolated worker goroutine
// reachable only via its message channel. Ownership of the raw bytes
// transfers to the decode path on dispatch.
type Coordinator struct {
	timeout time.Duration
	sched   clock.Scheduler
	worker  func(ctx context.Context, raw []byte, label string, msgs chan<- message)
}

// NewCoordinator creates a coordinator. A zero timeout selects
// DefaultTimeout; a nil scheduler selects the wall clock.
func NewCoordinator(timeout time.Duration, sched clock.Scheduler) *Coordinator {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if sched == nil {
		sched = clock.Wall{}
	}
	return &Coordinator{timeout: timeout, sched: sched, worker: runValidationWorker}
}

// Decode validates raw bytes on the worker, then decodes them on the calling
// goroutine with periodic progress callbacks. Returns a decoded buffer or a
// typed failure; cancellation of ctx abandons the worker.
func (c *Coordinator) Decode(ctx context.Context, raw []byte, trackID, label string, onProgress ProgressFunc) (*audio.Buffer, error) {
	jobID := uuid.New().String()[:8]

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	msgs := make(chan message, 4)
	go c.worker(workerCtx, raw, label, msgs)

	timedOut := make(chan struct{})
	timer := c.sched.AfterFunc(c.timeout, func() { close(timedOut) })
	defer timer.Stop()

	var codec string
waitValidated:
	for {
		select {
		case m := <-msgs:
			switch m.kind {
			case msgProgress:
				if onProgress != nil {
					onProgress(m.progress, m.note)
				}
			case msgValidated:
				codec = m.codec
				break waitValidated
			case msgError:
				return nil, m.err
			}

		case <-timedOut:
			cancelWorker()
			log.Printf("Decode job %s timed out for %q after %v", jobID, label, c.timeout)
			return nil, &TimeoutError{ByteSize: len(raw)}

		case <-ctx.Done():
			cancelWorker()
			return nil, fmt.Errorf("decode job %s canceled: %w", jobID, ctx.Err())
		}
	}

	buf, err := decodeBytes(codec, raw)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("%s decode failed", codec), Cause: err}
	}

	// Report chunked progress across the decoded sample windows. The decode
	// call above is atomic, so the chunking is simulated.
	if onProgress != nil {
		for i := 1; i <= progressChunks; i++ {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("decode job %s canceled: %w", jobID, ctx.Err())
			default:
			}
			onProgress(0.2+0.8*float64(i)/progressChunks, fmt.Sprintf("decoding %s", label))
		}
	}

	log.Printf("Decode job %s: %q -> %s %.2fs %dHz %dch",
		jobID, label, codec, buf.Duration(), buf.Format.SampleRate, buf.Format.Channels)
	return buf, nil
}

// runValidationWorker sniffs and sanity-checks the raw bytes. It shares no
// mutable state with the caller; results travel only on msgs. Exactly one
// terminal message is sent unless the context is canceled first.
func runValidationWorker(ctx context.Context, raw []byte, label string, msgs chan<- message) {
	defer func() {
		if r := recover(); r != nil {
			send(ctx, msgs, message{kind: msgError, err: &WorkerError{Cause: fmt.Errorf("panic: %v", r)}})
		}
	}()

	if !send(ctx, msgs, message{kind: msgProgress, progress: 0.1, note: fmt.Sprintf("validating %s", label)}) {
		return
	}

	if len(raw) == 0 {
		send(ctx, msgs, message{kind: msgError, err: &ValidationError{Reason: "empty file"}})
		return
	}

	codec, err := Sniff(raw)
	if err != nil {
		send(ctx, msgs, message{kind: msgError, err: &ValidationError{Reason: "unrecognized format", Cause: err}})
		return
	}

	if !send(ctx, msgs, message{kind: msgProgress, progress: 0.2, note: fmt.Sprintf("validated %s as %s", label, codec)}) {
		return
	}
	send(ctx, msgs, message{kind: msgValidated, codec: codec})
}

// send delivers a worker message unless the coordinator has gone away.
func send(ctx context.Context, msgs chan<- message, m message) bool {
	select {
	case msgs <- m:
		return true
	case <-ctx.Done():
		return false
	}
}
