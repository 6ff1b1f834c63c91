// services/hal/tick.go
package hal

import (
	"sync"
	"sync/atomic"
	"time"

	"loadctl-go/x/timex"
)

// TickSource is the periodic interrupt driving the countdown.
// The handler runs outside the main loop and MUST NOT block.
// Disable may be called from inside the handler.
type TickSource interface {
	Enable(handler func())
	Disable()
}

// TickerSource emits one handler call per period from its own goroutine.
type TickerSource struct {
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	gen  atomic.Uint32
}

// NewTickerSource builds a source at freqHz (1000 => 1 ms ticks).
func NewTickerSource(freqHz uint32) *TickerSource {
	return &TickerSource{period: timex.PeriodFromHz(freqHz)}
}

func (s *TickerSource) Period() time.Duration { return s.period }

// Enable (re)arms the source. A previous handler is replaced.
func (s *TickerSource) Enable(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop
	gen := s.gen.Add(1)
	go s.run(stop, gen, handler)
}

// Disable stops delivery. It does not wait for an in-flight handler call.
func (s *TickerSource) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
	s.gen.Add(1)
}

func (s *TickerSource) run(stop <-chan struct{}, gen uint32, handler func()) {
	t := time.NewTicker(s.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if s.gen.Load() != gen {
				return
			}
			handler()
		}
	}
}
