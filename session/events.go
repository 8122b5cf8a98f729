package session

import (
	"sync"

	"github.com/rodrigorfk/teleport/packet"
)

// events is the session's subscriber registry. removeAll is idempotent
// and legal before or after the channel closed.
type events struct {
	mtx sync.RWMutex

	open         []func()
	closed       []func()
	screenFrame  []func(*packet.ScreenFramePacket)
	clipboard    []func(data []byte)
	mfaChallenge []func(challenge string)
	fatal        []func(err error)
}

func newEvents() *events {
	return &events{}
}

func (evts *events) removeAll() {
	evts.mtx.Lock()
	defer evts.mtx.Unlock()
	evts.open = nil
	evts.closed = nil
	evts.screenFrame = nil
	evts.clipboard = nil
	evts.mfaChallenge = nil
	evts.fatal = nil
}

func (evts *events) emitOpen() {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.open {
		fn()
	}
}

func (evts *events) emitClosed() {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.closed {
		fn()
	}
}

func (evts *events) emitScreenFrame(pkt *packet.ScreenFramePacket) {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.screenFrame {
		fn(pkt)
	}
}

func (evts *events) emitClipboard(data []byte) {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.clipboard {
		fn(data)
	}
}

func (evts *events) emitMFAChallenge(challenge string) {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.mfaChallenge {
		fn(challenge)
	}
}

func (evts *events) emitFatal(err error) {
	evts.mtx.RLock()
	defer evts.mtx.RUnlock()
	for _, fn := range evts.fatal {
		fn(err)
	}
}

// OnOpen subscribes to the connection-open event.
func (sn *Session) OnOpen(fn func()) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.open = append(sn.evts.open, fn)
}

// OnClose subscribes to the connection-closed event.
func (sn *Session) OnClose(fn func()) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.closed = append(sn.evts.closed, fn)
}

// OnScreenFrame subscribes to rendered frames, one callback per frame.
func (sn *Session) OnScreenFrame(fn func(*packet.ScreenFramePacket)) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.screenFrame = append(sn.evts.screenFrame, fn)
}

// OnClipboard subscribes to peer clipboard data.
func (sn *Session) OnClipboard(fn func(data []byte)) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.clipboard = append(sn.evts.clipboard, fn)
}

// OnMFAChallenge subscribes to second-factor challenges; the argument
// is the opaque challenge JSON.
func (sn *Session) OnMFAChallenge(fn func(challenge string)) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.mfaChallenge = append(sn.evts.mfaChallenge, fn)
}

// OnFatal subscribes to the terminal error event. Every fatal
// condition yields the event once, followed by connection teardown.
func (sn *Session) OnFatal(fn func(err error)) {
	sn.evts.mtx.Lock()
	defer sn.evts.mtx.Unlock()
	sn.evts.fatal = append(sn.evts.fatal, fn)
}
