package voice

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome says what happened to an announcement request.
type Outcome string

const (
	OutcomeQueued   Outcome = "queued"
	OutcomeDisabled Outcome = "disabled"
	OutcomeDropped  Outcome = "dropped"
)

// Announcement is the result of Announce. ClipID is set only when the
// request was queued and names the clip the sink will receive.
type Announcement struct {
	Outcome Outcome
	ClipID  string
}

type job struct {
	id   string
	text string
}

type Config struct {
	QueueSize int
	Timeout   time.Duration
	Logger    logrus.FieldLogger
}

// Stats counts finished announcements.
type Stats struct {
	Delivered int64
	Failed    int64
	Dropped   int64
}

// Dispatcher plays announcements on a background worker so the caller never
// waits on, or sees errors from, the speech backend.
type Dispatcher struct {
	cfg   Config
	synth Synthesizer
	sink  Sink

	queue  chan job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func NewDispatcher(cfg Config, synth Synthesizer, sink Sink) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if synth == nil {
		synth = Disabled{}
	}
	return &Dispatcher{
		cfg:   cfg,
		synth: synth,
		sink:  sink,
		queue: make(chan job, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()
	d.wg.Add(1)
	go d.run()
}

// Announce enqueues text and returns immediately.
func (d *Dispatcher) Announce(text string) Announcement {
	if _, off := d.synth.(Disabled); off || d.sink == nil {
		return Announcement{Outcome: OutcomeDisabled}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed || d.ctx == nil {
		d.dropped.Add(1)
		return Announcement{Outcome: OutcomeDropped}
	}
	j := job{id: uuid.NewString(), text: text}
	select {
	case d.queue <- j:
		return Announcement{Outcome: OutcomeQueued, ClipID: j.id}
	default:
		d.dropped.Add(1)
		d.cfg.Logger.Warn("announcement queue full, dropping")
		return Announcement{Outcome: OutcomeDropped}
	}
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

// Shutdown stops accepting work, plays what is already queued and waits.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	if d.cancel != nil {
		d.cancel()
	}
	d.cfg.Logger.Info("voice dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.play(j)
	}
}

func (d *Dispatcher) play(j job) {
	ctx, cancel := context.WithTimeout(d.ctx, d.cfg.Timeout)
	defer cancel()

	logger := d.cfg.Logger.WithFields(logrus.Fields{"clip": j.id, "text": j.text})
	clip, err := d.synth.Synthesize(ctx, j.text)
	if err != nil {
		d.failed.Add(1)
		logger.WithError(err).Warn("voice synthesis failed")
		return
	}
	if err := d.sink.Play(ctx, j.id, clip); err != nil {
		d.failed.Add(1)
		logger.WithError(err).Warn("voice playback failed")
		return
	}
	d.delivered.Add(1)
	logger.Debug("announcement delivered")
}
