// services/countdown/state.go
package countdown

import "loadctl-go/types"

// Packed layout of the countdown word:
//
//	bits  0..15  remaining minutes
//	bits 16..23  seconds in current minute
//	bits 24..33  millisecond accumulator
//	bit  34      in progress
//	bit  35      expired
//	bits 36..63  sequence (visible changes)
const (
	minShift    = 0
	secShift    = 16
	msShift     = 24
	runBit      = 1 << 34
	expBit      = 1 << 35
	seqShift    = 36
	minMask     = 0xFFFF
	secMask     = 0xFF
	msMask      = 0x3FF
	seqMask     = 1<<28 - 1
	msPerSecond = 1000
)

func pack(s types.CountdownState) uint64 {
	w := uint64(s.RemainingMinutes)<<minShift |
		uint64(s.Seconds)<<secShift |
		uint64(s.Millis&msMask)<<msShift |
		uint64(s.Seq&seqMask)<<seqShift
	if s.InProgress {
		w |= runBit
	}
	if s.Expired {
		w |= expBit
	}
	return w
}

func unpack(w uint64) types.CountdownState {
	return types.CountdownState{
		RemainingMinutes: uint16(w >> minShift & minMask),
		Seconds:          uint8(w >> secShift & secMask),
		Millis:           uint16(w >> msShift & msMask),
		InProgress:       w&runBit != 0,
		Expired:          w&expBit != 0,
		Seq:              uint32(w >> seqShift & seqMask),
	}
}

// step advances a running countdown by one millisecond. Every full second
// bumps Seq.
func step(s types.CountdownState) types.CountdownState {
	s.Millis++
	if s.Millis < msPerSecond {
		return s
	}
	s.Millis = 0
	switch {
	case s.Seconds > 0:
		s.Seconds--
	case s.RemainingMinutes > 0:
		s.RemainingMinutes--
		s.Seconds = 59
	default:
		s.Expired = true
	}
	s.Seq = (s.Seq + 1) & seqMask
	return s
}
