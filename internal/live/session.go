package live

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/google/uuid"

	"redimaq/internal/app"
	"redimaq/internal/carousel"
	"redimaq/internal/render"
)

// Sender delivers one region update to the client. It is only called from
// the session's event loop.
type Sender func(ctx context.Context, p Push) error

// Session is the server side of one open page. All view state is touched by
// the goroutine running Run; timers and the socket reader only hand work to
// it through channels.
type Session struct {
	ID   string
	Name string

	view   View
	rdr    render.Renderer
	events chan Event
	ticks  chan Tick
	done   chan struct{}
}

// NewSession builds the view named by values["view"], restoring blog state
// from the same values. sched is carousel.RealScheduler outside tests.
func NewSession(values url.Values, site *app.Site, rdr render.Renderer, sched carousel.Scheduler) (*Session, error) {
	s := &Session{
		ID:     uuid.NewString(),
		Name:   values.Get("view"),
		rdr:    rdr,
		events: make(chan Event, 16),
		ticks:  make(chan Tick, 4),
		done:   make(chan struct{}),
	}
	v, err := newView(s.Name, values, viewEnv{site: site, sched: sched, fire: s.fire})
	if err != nil {
		return nil, err
	}
	s.view = v
	return s, nil
}

// Deliver queues a client event. It reports false once the session is over.
func (s *Session) Deliver(ctx context.Context, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// fire runs on the timer goroutine.
func (s *Session) fire(t Tick) {
	select {
	case s.ticks <- t:
	case <-s.done:
	}
}

// Done is closed after Run has torn the view down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run is the event loop. It returns when ctx ends or send fails, and always
// closes the view first so no timer or listener outlives the page.
func (s *Session) Run(ctx context.Context, send Sender) error {
	defer close(s.done)
	defer s.view.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			if err := s.flush(ctx, s.view.Handle(ev), send); err != nil {
				return err
			}
		case t := <-s.ticks:
			if err := s.flush(ctx, s.view.Tick(t), send); err != nil {
				return err
			}
		}
	}
}

func (s *Session) flush(ctx context.Context, regions []string, send Sender) error {
	for _, id := range regions {
		data, ok := s.view.Region(id)
		if !ok {
			continue
		}
		html, err := s.rdr.RenderRegion(ctx, id, data)
		if err != nil {
			log.Printf("[live] %s render %s: %v", s.ID, id, err)
			continue
		}
		if err := send(ctx, Push{Region: id, HTML: string(html)}); err != nil {
			return fmt.Errorf("live: push %s: %w", id, err)
		}
	}
	return nil
}
