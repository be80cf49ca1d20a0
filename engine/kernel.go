// Package engine is the discrete-event simulation kernel: a monotonic
// virtual clock, a priority queue of timed callbacks, and the
// neighbor-range packet dispatcher. It knows nothing about the WSN
// protocol; node.Node satisfies Peer and drives the kernel from its
// own timers and message handlers.
package engine

import (
	"container/heap"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Simulation at construction time.
type Option func(*Simulation)

// WithSeed sets the seed of the kernel's PRNG (spec §5: a single
// seed drives arrival jitter, loss, and test stimulus — packet loss,
// node arrival jitter and runner placement all draw from this one
// stream via Rand, so identical seed+parameters reproduce identical
// traces).
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLossChance sets NODE_LOSS_CHANCE (spec §4.1).
func WithLossChance(p float64) Option {
	return func(s *Simulation) { s.lossChance = p }
}

// WithTimescale enables cosmetic real-time pacing: the kernel sleeps
// wall-clock timescale*(next_deadline-now) between events. Zero (the
// default) disables pacing.
func WithTimescale(scale float64) Option {
	return func(s *Simulation) { s.timescale = scale }
}

// WithLogger overrides the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// Simulation is the scheduler/kernel (spec §4.1).
type Simulation struct {
	now       float64
	queue     eventQueue
	seq       uint64
	timescale float64

	rng        *rand.Rand
	lossChance float64

	Topology *TopologyIndex
	logger   *logrus.Logger
}

// New creates a Simulation with an empty event queue and topology index.
func New(opts ...Option) *Simulation {
	s := &Simulation{
		Topology: NewTopologyIndex(),
		logger:   logrus.StandardLogger(),
		rng:      rand.New(rand.NewSource(1)),
	}
	heap.Init(&s.queue)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current virtual clock value.
func (s *Simulation) Now() float64 { return s.now }

// Logger returns the kernel's structured logger, shared with node
// handlers so every log line in a run carries the same fields.
func (s *Simulation) Logger() *logrus.Logger { return s.logger }

// ScheduleAfter appends a callback at now+delay. A negative delay is
// clamped to zero (spec §4.1, "Failure modes").
func (s *Simulation) ScheduleAfter(delay float64, callback func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.queue, &event{
		deadline: s.now + delay,
		seq:      s.seq,
		callback: callback,
	})
}

// Run advances the virtual clock to the next event's deadline and
// executes it, repeating until now >= until or the queue empties.
// A panicking callback is a protocol invariant violation: it
// terminates the run with that error, matching the teacher's
// log.Panicf idiom for "should never happen" conditions (spec §4.1,
// "Failure modes"; spec §7).
func (s *Simulation) Run(until float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("now", s.now).WithField("panic", r).Error("simulation aborted on protocol invariant violation")
			err = &InvariantViolation{At: s.now, Cause: r}
		}
	}()

	for s.queue.Len() > 0 && s.now < until {
		next := s.queue[0]
		if s.timescale > 0 {
			wait := s.timescale * (next.deadline - s.now)
			if wait > 0 {
				time.Sleep(time.Duration(wait * float64(time.Second)))
			}
		}
		ev := heap.Pop(&s.queue).(*event)
		s.now = ev.deadline
		ev.callback()
	}
	if s.now < until {
		s.now = until
	}
	return nil
}

// InvariantViolation is returned by Run when a callback panics.
type InvariantViolation struct {
	At    float64
	Cause any
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("protocol invariant violation at t=%.6f: %v", e.At, e.Cause)
}

// Send walks sender's neighbor list (sorted by distance ascending);
// for each peer within sender's transmission range it schedules
// delivery after a per-link propagation delay, optionally dropping the
// per-peer copy under the configured loss model (spec §4.1).
func (s *Simulation) Send(sender Peer, pck any) {
	rng := sender.TxRange()
	for _, n := range s.Topology.Neighbors(sender.GUI()) {
		if n.distance > rng {
			break
		}
		if s.lossChance > 0 && s.rng.Float64() < s.lossChance {
			continue
		}
		prop := n.distance / 1e6
		if prop < 1e-5 {
			prop = 1e-5
		}
		peer := n.peer
		dist := n.distance
		s.ScheduleAfter(prop, func() {
			peer.Deliver(s.now, dist, pck)
		})
	}
}

// Rand exposes the kernel's seeded PRNG so node arrival jitter and any
// scripted test stimulus draw from the same stream (spec §5, "Seed").
func (s *Simulation) Rand() *rand.Rand { return s.rng }
