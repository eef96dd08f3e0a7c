// Package scheduler admits chunk work items to the translation worker under
// two independent caps: a concurrency ceiling and a sliding-window rate
// limit. Admission is FIFO among pending items; completions may land in any
// order.
package scheduler

import (
	"context"
	"image"
	"sync"
	"time"

	"manga-translator/internal/config"
	"manga-translator/internal/limiter"
	"manga-translator/internal/logger"
	"manga-translator/models"
)

// Worker translates one chunk. It is called on its own goroutine and may
// block on network I/O; the scheduler itself never blocks inside a tick.
type Worker func(ctx context.Context, item *models.WorkItem) (*image.NRGBA, error)

// PreFilter decides whether a chunk is worth sending to the worker at all.
// Chunks it rejects are completed synthetically with their original pixels,
// consuming neither a concurrency slot nor rate budget.
type PreFilter func(img *image.NRGBA) bool

// Options configures a Scheduler. Zero values fall back to the defaults in
// internal/config.
type Options struct {
	Ceiling           int
	RequestsPerMinute int
	Window            time.Duration
	TickInterval      time.Duration
	Clock             func() time.Time
	PreFilter         PreFilter
}

func (o *Options) fillDefaults() {
	if o.Ceiling <= 0 {
		o.Ceiling = config.MaxConcurrentTranslations
	}
	if o.RequestsPerMinute <= 0 {
		o.RequestsPerMinute = config.RequestsPerMinute
	}
	if o.Window <= 0 {
		o.Window = config.RateWindowLength
	}
	if o.TickInterval <= 0 {
		o.TickInterval = config.SchedulerTickInterval
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Scheduler owns status transitions for its registered work items. Every
// mutation happens under mu, so overlapping ticks and out-of-order worker
// completions cannot double-admit an item or resurrect a reset one.
//
// Aggregates (pending queue, active and terminal counts) are maintained
// incrementally alongside each transition rather than re-derived by scanning
// the collection on every tick.
type Scheduler struct {
	opts   Options
	worker Worker

	gate   limiter.Gate
	window *limiter.RateWindow

	mu       sync.Mutex
	items    []*models.WorkItem
	queue    []*models.WorkItem // pending items in submission order
	active   int
	terminal int

	kick     chan struct{}
	onChange func(*models.WorkItem)
}

func New(opts Options, worker Worker) *Scheduler {
	opts.fillDefaults()
	return &Scheduler{
		opts:   opts,
		worker: worker,
		gate:   limiter.Gate{Ceiling: opts.Ceiling},
		window: limiter.NewRateWindow(opts.Window),
		kick:   make(chan struct{}, 1),
	}
}

// SetChangeCallback registers a callback invoked (outside the lock) after
// any item changes status. Used for progress reporting.
func (s *Scheduler) SetChangeCallback(fn func(*models.WorkItem)) {
	s.onChange = fn
}

// Add registers pending items for scheduling. Submission order is admission
// order.
func (s *Scheduler) Add(items ...*models.WorkItem) {
	s.mu.Lock()
	s.items = append(s.items, items...)
	s.queue = append(s.queue, items...)
	s.mu.Unlock()
	s.wake()
}

// dispatch is one admitted item together with the generation it was
// admitted under, captured before the lock is released.
type dispatch struct {
	item *models.WorkItem
	gen  uint64
}

// Tick runs one scheduling pass: synthetically complete filtered chunks,
// then admit min(pending, concurrency slots, rate slots) items in FIFO
// order and hand each to the worker on its own goroutine. Safe to call
// concurrently with other ticks and with in-flight completions.
func (s *Scheduler) Tick(ctx context.Context) {
	var started []dispatch
	var changed []*models.WorkItem

	// The pre-filter is a full pixel scan per chunk, so it runs on a queue
	// snapshot without holding the lock. Completions are applied afterwards
	// with a status re-check in case another tick raced ahead.
	var flat map[*models.WorkItem]bool
	if s.opts.PreFilter != nil {
		s.mu.Lock()
		snapshot := append([]*models.WorkItem(nil), s.queue...)
		s.mu.Unlock()

		for _, item := range snapshot {
			if !s.opts.PreFilter(item.Image) {
				if flat == nil {
					flat = make(map[*models.WorkItem]bool)
				}
				flat[item] = true
			}
		}
	}

	s.mu.Lock()
	now := s.opts.Clock()

	if len(flat) > 0 {
		kept := s.queue[:0]
		for _, item := range s.queue {
			if !flat[item] || item.Status != models.ItemPending {
				kept = append(kept, item)
				continue
			}
			// Flat chunk: complete with the original pixels, off-budget.
			item.Complete(item.Image)
			s.terminal++
			changed = append(changed, item)
			logger.Debug("scheduler: chunk %d completed synthetically (flat)", item.Index)
		}
		s.queue = kept
	}

	if len(s.queue) > 0 {
		n := len(s.queue)
		if slots := s.gate.Available(s.active); slots < n {
			n = slots
		}
		if slots := s.window.Available(now, s.opts.RequestsPerMinute); slots < n {
			n = slots
		}

		// Admission and its rate stamp are recorded under the same lock
		// hold: an item is never Processing without a timestamp, nor the
		// reverse.
		for _, item := range s.queue[:n] {
			item.Status = models.ItemProcessing
			s.active++
			s.window.Record(now)
			started = append(started, dispatch{item: item, gen: item.Generation})
			changed = append(changed, item)
		}
		s.queue = s.queue[n:]
	}
	s.mu.Unlock()

	for _, item := range changed {
		s.notify(item)
	}
	for _, d := range started {
		go s.run(ctx, d)
	}
}

// run executes the worker for one admitted item and reconciles the outcome.
// A result is applied only if the item is still Processing under the same
// generation it was dispatched with; anything else is a stale response from
// before a user reset and is dropped silently.
func (s *Scheduler) run(ctx context.Context, d dispatch) {
	result, err := s.worker(ctx, d.item)

	s.mu.Lock()
	stale := d.item.Generation != d.gen || d.item.Status != models.ItemProcessing
	if !stale {
		s.active--
		s.terminal++
		if err != nil {
			d.item.Fail(err)
		} else {
			d.item.Complete(result)
		}
	}
	s.mu.Unlock()

	if stale {
		logger.Debug("scheduler: dropping stale result for chunk %d", d.item.Index)
		return
	}
	s.notify(d.item)
	s.wake()
}

// Regenerate returns a terminal item to Pending for another attempt. The
// generation bump inside Reset invalidates any still-outstanding dispatch.
func (s *Scheduler) Regenerate(id string) bool {
	s.mu.Lock()
	var reset *models.WorkItem
	for _, item := range s.items {
		if item.ID == id && item.Reset() {
			s.terminal--
			s.queue = append(s.queue, item)
			reset = item
			break
		}
	}
	s.mu.Unlock()

	if reset == nil {
		return false
	}
	s.notify(reset)
	s.wake()
	return true
}

// Done reports whether every registered item has reached a terminal state.
func (s *Scheduler) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal == len(s.items)
}

// Counts returns a snapshot of item counts by status.
func (s *Scheduler) Counts() (pending, processing, completed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		switch item.Status {
		case models.ItemPending:
			pending++
		case models.ItemProcessing:
			processing++
		case models.ItemCompleted:
			completed++
		case models.ItemError:
			failed++
		}
	}
	return
}

// Items returns the registered items in submission order. Callers must not
// mutate item state; use Regenerate for that.
func (s *Scheduler) Items() []*models.WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.WorkItem, len(s.items))
	copy(out, s.items)
	return out
}

// Run ticks until every item is terminal or ctx is cancelled. Ticks fire on
// state changes (via the internal wake channel) and on a periodic timer as
// a backstop for the sliding rate window.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)
		if s.Done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.kick:
		case <-ticker.C:
		}
	}
}

// wake nudges Run without blocking; a pending nudge is enough.
func (s *Scheduler) wake() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Scheduler) notify(item *models.WorkItem) {
	if s.onChange != nil {
		s.onChange(item)
	}
}
