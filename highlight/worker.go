package highlight

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSupersededRequests = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "scriptrunner",
	Subsystem: "highlight",
	Name:      "superseded_requests_total",
	Help:      "Total number of highlighting requests dropped in favour of a newer one",
})

type request struct {
	seq    uint64
	text   string
	cursor int
}

// Worker runs highlighting for a document in the background. Of all requests
// arriving while highlighting is in progress, only the most recent one will be
// processed.
//
// Request may be called from any goroutine. Results are published on a
// channel holding at most one result, which always is the newest one.
type Worker struct {
	h          *Highlighter
	mu         sync.Mutex // guards fields below
	seq        uint64
	pending    *request
	superseded int
	last       *Result
	wake       chan struct{}
	results    chan Result
}

// NewWorker creates a worker for highlighter h. Clients have to call Run to
// start processing.
func NewWorker(h *Highlighter) *Worker {
	return &Worker{
		h:       h,
		wake:    make(chan struct{}, 1),
		results: make(chan Result, 1),
	}
}

// Request asks for highlighting of text, replacing any request not yet
// started. It returns the sequence number of the request, which will be
// reported in Result.Seq.
func (w *Worker) Request(text string, cursor int) uint64 {
	w.mu.Lock()
	w.seq++
	if w.pending != nil {
		w.superseded++
		metricSupersededRequests.Inc()
	}
	w.pending = &request{seq: w.seq, text: text, cursor: cursor}
	seq := w.seq
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default: // worker has already been notified
	}
	return seq
}

// Run processes requests until ctx is cancelled. Run must not be called more
// than once at a time.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.wake:
		}
		w.mu.Lock()
		req := w.pending
		w.pending = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}
		r := w.h.Highlight(req.text, req.cursor)
		r.Seq = req.seq
		w.mu.Lock()
		stale := w.seq > req.seq
		if !stale {
			w.last = &r
		}
		w.mu.Unlock()
		if stale { // a newer request is waiting
			tracer().Debugf("dropping result of superseded request #%d", req.seq)
			continue
		}
		w.publish(r)
	}
}

// publish replaces an unconsumed result by r.
func (w *Worker) publish(r Result) {
	for {
		select {
		case w.results <- r:
			return
		default:
			select {
			case <-w.results:
			default:
			}
		}
	}
}

// Results returns the channel results are published on.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Latest returns the most recent result, if there is one.
func (w *Worker) Latest() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return Result{}, false
	}
	return *w.last, true
}

// Superseded returns the number of requests which have been replaced by a newer
// one before processing started.
func (w *Worker) Superseded() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.superseded
}
