package id

import (
	"sync"
	"sync/atomic"
)

type Mode string

const (
	Inc    Mode = "inc"
	Unique Mode = "unique"
)

var (
	DefaultIncIDCounter = NewIDCounter(Inc)
)

// IDCounter hands out directory ids. Inc mode is a plain atomic
// counter, Unique mode tracks live ids so released ones can be reused.
type IDCounter struct {
	counter uint32

	ids  map[uint32]struct{}
	mtx  sync.Mutex
	mode Mode
}

func NewIDCounter(mode Mode) *IDCounter {
	return &IDCounter{
		ids:  make(map[uint32]struct{}),
		mode: mode,
	}
}

func (idCounter *IDCounter) ReserveID(id uint32) {
	idCounter.mtx.Lock()
	defer idCounter.mtx.Unlock()
	idCounter.ids[id] = struct{}{}
}

func (idCounter *IDCounter) GetID() uint32 {
	switch idCounter.mode {
	case Inc:
		return atomic.AddUint32(&idCounter.counter, 1)
	case Unique:
		idCounter.mtx.Lock()
		for i := uint32(1); i != 0; i++ {
			_, ok := idCounter.ids[i]
			if !ok {
				idCounter.ids[i] = struct{}{}
				idCounter.mtx.Unlock()
				return i
			}
		}
		idCounter.mtx.Unlock()
	}
	return 0
}

func (idCounter *IDCounter) DelID(i uint32) {
	switch idCounter.mode {
	case Unique:
		idCounter.mtx.Lock()
		delete(idCounter.ids, i)
		idCounter.mtx.Unlock()
	}
}

func (idCounter *IDCounter) Close() {
	idCounter.ids = nil
}
