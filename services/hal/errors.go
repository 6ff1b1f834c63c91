package hal

import (
	"loadctl-go/errcode"
	"loadctl-go/x/conv"
)

func errUnknownPin(n int) error {
	var buf [20]byte
	return errcode.Wrap(errcode.InvalidParams, "hal.claim", "unknown pin "+string(conv.Itoa(buf[:], int64(n))), nil)
}
