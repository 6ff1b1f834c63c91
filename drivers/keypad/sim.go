// drivers/keypad/sim.go
package keypad

import (
	"sync"

	"loadctl-go/services/hal"
	"loadctl-go/types"
)

// SimMatrix models the keypad wiring for the simulator and tests. A queued
// press becomes active on the next line drive and then reads high on its
// sense line (while its drive line is active) for a fixed number of reads.
type SimMatrix struct {
	mu     sync.Mutex
	driven int
	queue  []simPress
	active *simPress

	drive [DriveLines]*simLine
	sense [SenseLines]*simLine
}

type simPress struct {
	d, s  int
	reads int
}

type simLine struct {
	m     *SimMatrix
	idx   int
	drive bool
	n     int
}

func NewSimMatrix() *SimMatrix {
	m := &SimMatrix{driven: -1}
	for i := range m.drive {
		m.drive[i] = &simLine{m: m, idx: i, drive: true, n: 11 + i}
	}
	for i := range m.sense {
		m.sense[i] = &simLine{m: m, idx: i, n: 15 + i}
	}
	return m
}

func (m *SimMatrix) DrivePins() (out [DriveLines]hal.GPIOPin) {
	for i, l := range m.drive {
		out[i] = l
	}
	return out
}

func (m *SimMatrix) SensePins() (out [SenseLines]hal.GPIOPin) {
	for i, l := range m.sense {
		out[i] = l
	}
	return out
}

// Press queues k held for reads samples. '$' maps to the function key.
func (m *SimMatrix) Press(k types.Key, reads int) bool {
	if k == types.KeyHold {
		k = types.KeyFunc
	}
	for d := range layout {
		for s := range layout[d] {
			if layout[d][s] != k {
				continue
			}
			if reads < 1 {
				reads = 1
			}
			m.mu.Lock()
			m.queue = append(m.queue, simPress{d: d, s: s, reads: reads})
			m.mu.Unlock()
			return true
		}
	}
	return false
}

// Tap queues quick presses; '$' is held for the default hold window.
func (m *SimMatrix) Tap(keys ...types.Key) {
	for _, k := range keys {
		reads := 1
		if k == types.KeyHold {
			reads = DefaultConfig().HoldPolls + 1
		}
		m.Press(k, reads)
	}
}

// Pending counts presses not yet fully released.
func (m *SimMatrix) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.queue)
	if m.active != nil {
		n++
	}
	return n
}

func (m *SimMatrix) setDriven(i int, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !on {
		if m.driven == i {
			m.driven = -1
		}
		return
	}
	m.driven = i
	if m.active == nil && len(m.queue) > 0 {
		p := m.queue[0]
		m.queue = m.queue[1:]
		m.active = &p
	}
}

func (m *SimMatrix) read(s int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.active
	if p == nil || p.d != m.driven || p.s != s {
		return false
	}
	p.reads--
	if p.reads <= 0 {
		m.active = nil
	}
	return true
}

func (l *simLine) ConfigureInput(hal.Pull) error { return nil }
func (l *simLine) ConfigureOutput(bool) error    { return nil }
func (l *simLine) Number() int                   { return l.n }
func (l *simLine) Toggle()                       {}

func (l *simLine) Set(level bool) {
	if l.drive {
		l.m.setDriven(l.idx, level)
	}
}

func (l *simLine) Get() bool {
	if l.drive {
		return false
	}
	return l.m.read(l.idx)
}
