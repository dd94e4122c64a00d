package carousel

import (
	"errors"
	"time"
)

var ErrNoItems = errors.New("carousel: no items")

// Fire delivers a due tick back to the owner's event loop. gen identifies the
// timer that produced it; the controller drops ticks from cancelled timers.
type Fire func(gen uint64)

// Controller owns one carousel's state and its pending timer. It is not safe
// for concurrent use: the owner calls it from a single event loop, and the
// timer callback only hands the tick back through Fire.
type Controller struct {
	Name     string
	Items    []Item
	Interval time.Duration

	sched Scheduler
	fire  Fire

	state   State
	timer   Timer
	gen     uint64
	closed  bool
	changed time.Time
}

type Item struct {
	Src   string
	Alt   string
	Label string
}

type Options struct {
	Name      string
	Items     []Item
	Interval  time.Duration
	Scheduler Scheduler
	Fire      Fire
}

// New returns a controller in Playing at index 0 with its first tick armed.
func New(opt Options) (*Controller, error) {
	if len(opt.Items) == 0 {
		return nil, ErrNoItems
	}
	if opt.Interval <= 0 {
		return nil, errors.New("carousel: interval must be positive")
	}
	if opt.Fire == nil {
		return nil, errors.New("carousel: missing fire callback")
	}
	if opt.Scheduler == nil {
		opt.Scheduler = RealScheduler
	}
	c := &Controller{
		Name:     opt.Name,
		Items:    opt.Items,
		Interval: opt.Interval,
		sched:    opt.Scheduler,
		fire:     opt.Fire,
	}
	c.changed = c.sched.Now()
	c.arm()
	return c, nil
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Index() int   { return c.state.Index }
func (c *Controller) Len() int     { return len(c.Items) }
func (c *Controller) Closed() bool { return c.closed }

// Tick handles a fired timer. It reports whether the index changed; ticks
// from a timer cancelled by Pause or Close are ignored.
func (c *Controller) Tick(gen uint64) bool {
	if c.closed || gen != c.gen || c.state.Paused() {
		return false
	}
	c.timer = nil
	c.apply(Tick())
	c.arm()
	return true
}

// Pause cancels the pending timer in the same call that flips the mode.
func (c *Controller) Pause() bool {
	if c.closed || c.state.Paused() {
		return false
	}
	c.disarm()
	c.state = Transition(c.state, Pause(), len(c.Items))
	c.changed = c.sched.Now()
	return true
}

// Resume restarts the interval from zero elapsed.
func (c *Controller) Resume() bool {
	if c.closed || !c.state.Paused() {
		return false
	}
	c.state = Transition(c.state, Resume(), len(c.Items))
	c.changed = c.sched.Now()
	c.arm()
	return true
}

func (c *Controller) Next() bool     { return c.manual(Next()) }
func (c *Controller) Previous() bool { return c.manual(Previous()) }

// GoTo panics on an index outside [0, Len()).
func (c *Controller) GoTo(i int) bool { return c.manual(GoTo(i)) }

// Close cancels the pending timer. The controller ignores everything after.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.disarm()
	c.closed = true
}

// Armed reports whether a tick is pending.
func (c *Controller) Armed() bool { return c.timer != nil }

// Progress is the fraction of the current interval that has elapsed, reset by
// every index change and pinned at zero while paused.
func (c *Controller) Progress() float64 {
	if c.closed || c.state.Paused() {
		return 0
	}
	el := c.sched.Now().Sub(c.changed)
	if el <= 0 {
		return 0
	}
	if el >= c.Interval {
		return 1
	}
	return float64(el) / float64(c.Interval)
}

func (c *Controller) manual(e Event) bool {
	if c.closed {
		return false
	}
	c.apply(e)
	return true
}

func (c *Controller) apply(e Event) {
	prev := c.state.Index
	c.state = Transition(c.state, e, len(c.Items))
	if c.state.Index != prev || e.Kind == EventTick {
		c.changed = c.sched.Now()
	}
}

func (c *Controller) arm() {
	c.disarm()
	c.gen++
	gen := c.gen
	fire := c.fire
	c.timer = c.sched.AfterFunc(c.Interval, func() { fire(gen) })
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// 作废已触发但尚未处理的 tick
	c.gen++
}
