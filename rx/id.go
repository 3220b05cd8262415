package rx

import (
	"strconv"
	"sync/atomic"
)

// SessionID identifies a source for logging and debugging. Ids increase
// monotonically per process and carry no ordering meaning.
type SessionID uint64

var lastSessionID atomic.Uint64

func nextSessionID() SessionID {
	return SessionID(lastSessionID.Add(1))
}

func (id SessionID) String() string {
	return "rx-" + strconv.FormatUint(uint64(id), 10)
}
