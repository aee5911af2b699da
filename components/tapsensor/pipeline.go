package tapsensor

import (
	"time"

	"go.uber.org/atomic"

	"go.viam.com/tapsense/logging"
	"go.viam.com/tapsense/utils"
)

// A Pipeline wires the queue, the classifier, the disambiguator and the registry together.
// Capture is the interrupt side; Poll runs on the cooperative loop.
type Pipeline struct {
	queue         Queue
	classifier    Classifier
	disambiguator *Disambiguator
	registry      Registry
	logger        logging.Logger

	counts [2][4]atomic.Uint64
	onTap  []func(Sample, Direction)
}

// NewPipeline returns a pipeline whose timeouts run on scheduler. Register its Poll method with
// the same loop.
func NewPipeline(
	window time.Duration,
	policy SecondaryAxisPolicy,
	clock utils.MonotonicClock,
	scheduler utils.Scheduler,
	logger logging.Logger,
) *Pipeline {
	p := &Pipeline{
		classifier: Classifier{Policy: policy},
		logger:     logger,
	}
	p.disambiguator = NewDisambiguator(window, clock, scheduler, p.dispatch)
	return p
}

// Capture hands a sample over from the interrupt side. It never blocks, locks or logs.
func (p *Pipeline) Capture(s Sample) bool {
	return p.queue.TryPush(s)
}

// OnTap registers f to run for every classified tap drained from the queue, before it reaches the
// disambiguator. Must be called before the loop starts.
func (p *Pipeline) OnTap(f func(Sample, Direction)) {
	p.onTap = append(p.onTap, f)
}

// Register adds a gesture listener.
func (p *Pipeline) Register(kind Kind, dir Direction, l Listener) error {
	return p.registry.Register(kind, dir, l)
}

// Poll drains the queue.
func (p *Pipeline) Poll() {
	for {
		s, ok := p.queue.TryPop()
		if !ok {
			return
		}
		dir := p.classifier.Classify(s)
		if dir == Unknown {
			p.logger.Debugw("ignoring tap with no dominant axis", "sample", s.String())
			continue
		}
		for _, f := range p.onTap {
			f(s, dir)
		}
		p.disambiguator.HandleTap(s, dir)
	}
}

func (p *Pipeline) dispatch(g Gesture) {
	if d, ok := g.Direction.slot(); ok {
		p.counts[g.Kind][d].Inc()
	}
	p.logger.Debugw("tap gesture", "kind", g.Kind.String(), "direction", g.Direction.String(), "timestamp_ms", g.Timestamp)
	p.registry.Dispatch(g)
}

// GestureCount returns how many gestures of (kind, dir) were dispatched.
func (p *Pipeline) GestureCount(kind Kind, dir Direction) uint64 {
	d, ok := dir.slot()
	if !ok || (kind != Single && kind != Double) {
		return 0
	}
	return p.counts[kind][d].Load()
}

// ListenerCount returns how many listeners are registered for (kind, dir).
func (p *Pipeline) ListenerCount(kind Kind, dir Direction) int {
	return p.registry.Count(kind, dir)
}

// Dropped returns how many captured samples were lost to a full queue.
func (p *Pipeline) Dropped() uint64 {
	return p.queue.Dropped()
}

// Pending reports whether a first tap is waiting for a partner.
func (p *Pipeline) Pending() bool {
	return p.disambiguator.Pending()
}

// Window returns the double tap window.
func (p *Pipeline) Window() time.Duration {
	return p.disambiguator.Window()
}
