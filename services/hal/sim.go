// services/hal/sim.go
package hal

import (
	"math"
	"sync"
	"sync/atomic"
)

// SimPin is an in-memory pin for the host simulator and tests.
type SimPin struct {
	mu     sync.Mutex
	n      int
	level  bool
	output bool
	pull   Pull
	sets   int
}

func NewSimPin(n int) *SimPin { return &SimPin{n: n} }

func (p *SimPin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	p.output = false
	p.pull = pull
	p.level = pull == PullUp
	p.mu.Unlock()
	return nil
}

func (p *SimPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.output = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.sets++
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.sets++
	p.mu.Unlock()
}

func (p *SimPin) Number() int { return p.n }

// Sets counts Set/Toggle calls; tests use it to catch redundant relay writes.
func (p *SimPin) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// SimPins hands out SimPins by number, creating them on first use.
type SimPins struct {
	mu   sync.Mutex
	pins map[int]*SimPin
}

func NewSimPins() *SimPins { return &SimPins{pins: map[int]*SimPin{}} }

func (f *SimPins) ByNumber(n int) (GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	return f.Pin(n), true
}

func (f *SimPins) Pin(n int) *SimPin {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pins[n]
	if p == nil {
		p = NewSimPin(n)
		f.pins[n] = p
	}
	return p
}

// SimVoltage is a settable VoltageSource.
type SimVoltage struct{ bits atomic.Uint32 }

func NewSimVoltage(v float32) *SimVoltage {
	s := &SimVoltage{}
	s.Set(v)
	return s
}

func (s *SimVoltage) Set(v float32)           { s.bits.Store(math.Float32bits(v)) }
func (s *SimVoltage) BatteryVoltage() float32 { return math.Float32frombits(s.bits.Load()) }
