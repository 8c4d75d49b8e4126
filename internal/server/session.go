package server

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// newSeed draws a game seed. It never returns 0, which means "unset".
func newSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano()) | 1
	}
	return binary.LittleEndian.Uint64(b[:]) | 1
}
