package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jumboframes/armorigo/log"
	"github.com/jumboframes/armorigo/synchub"
	"github.com/rodrigorfk/teleport/conn"
	"github.com/rodrigorfk/teleport/packet"
	"github.com/rodrigorfk/teleport/pkg/id"
	"github.com/rodrigorfk/teleport/sharedir"
	"github.com/singchia/go-timer/v2"
	"github.com/singchia/yafsm"
)

const (
	UNINIT     = "uninit"
	CONNECTING = "connecting"
	OPENED     = "opened"
	CLOSING    = "closing"
	CLOSED     = "closed"

	ET_CONNECT = "connect"
	ET_OPEN    = "open"
	ET_CLOSE   = "close"
	ET_CLOSED  = "closed"
)

var (
	ErrTransportUnavailable = errors.New("transport unavailable")
	ErrSessionClosed        = errors.New("session closed")
)

// ChannelFactory builds the transport channel at Connect time with the
// session attached as delegate.
type ChannelFactory func(dlgt conn.Delegate) (conn.Channel, error)

type sessionOpts struct {
	// timer
	tmr        timer.Timer
	tmrOutside bool

	announceTimeout time.Duration
	pf              *packet.PacketFactory
	log             log.Logger
	channelFactory  ChannelFactory
}

// Session coordinates one connection's full lifecycle and message
// traffic. A torn-down session stays safely callable but never
// reconnects, reconnection means constructing a new Session.
type Session struct {
	sessionOpts
	dialer conn.Dialer

	fsm      *yafsm.FSM
	shub     *synchub.SyncHub
	evts     *events
	finiOnce *sync.Once

	channel conn.Channel
	chMtx   sync.RWMutex

	shares   map[uint32]*share
	shareMtx sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

type share struct {
	provider sharedir.Provider
	active   bool
}

type SessionOption func(*Session) error

func OptionSessionTimer(tmr timer.Timer) SessionOption {
	return func(sn *Session) error {
		sn.tmr = tmr
		sn.tmrOutside = true
		return nil
	}
}

func OptionSessionLogger(log log.Logger) SessionOption {
	return func(sn *Session) error {
		sn.log = log
		return nil
	}
}

func OptionSessionPacketFactory(pf *packet.PacketFactory) SessionOption {
	return func(sn *Session) error {
		sn.pf = pf
		return nil
	}
}

func OptionSessionAnnounceTimeout(timeout time.Duration) SessionOption {
	return func(sn *Session) error {
		sn.announceTimeout = timeout
		return nil
	}
}

func OptionSessionChannelFactory(factory ChannelFactory) SessionOption {
	return func(sn *Session) error {
		sn.channelFactory = factory
		return nil
	}
}

func NewSession(dialer conn.Dialer, opts ...SessionOption) (*Session, error) {
	sn := &Session{
		sessionOpts: sessionOpts{
			announceTimeout: 30 * time.Second,
		},
		dialer:   dialer,
		fsm:      yafsm.NewFSM(),
		evts:     newEvents(),
		finiOnce: new(sync.Once),
		shares:   make(map[uint32]*share),
	}
	for _, opt := range opts {
		err := opt(sn)
		if err != nil {
			return nil, err
		}
	}
	// timer
	if !sn.tmrOutside {
		sn.tmr = timer.NewTimer()
	}
	sn.shub = synchub.NewSyncHub(synchub.OptionTimer(sn.tmr))
	// packet factory
	if sn.pf == nil {
		sn.pf = packet.NewPacketFactory(id.NewIDCounter(id.Inc))
	}
	// log
	if sn.log == nil {
		sn.log = log.DefaultLog
	}
	if sn.channelFactory == nil {
		if sn.dialer == nil {
			return nil, packet.ErrInvalidArguments
		}
		sn.channelFactory = func(dlgt conn.Delegate) (conn.Channel, error) {
			return conn.NewChannelWithDialer(sn.dialer, dlgt,
				conn.OptionChannelLogger(sn.log))
		}
	}
	sn.ctx, sn.cancel = context.WithCancel(context.Background())
	// states
	sn.initFSM()
	return sn, nil
}

func (sn *Session) initFSM() {
	uninit := sn.fsm.AddState(UNINIT)
	connecting := sn.fsm.AddState(CONNECTING)
	opened := sn.fsm.AddState(OPENED)
	closing := sn.fsm.AddState(CLOSING)
	closed := sn.fsm.AddState(CLOSED)
	sn.fsm.SetState(UNINIT)

	// events
	sn.fsm.AddEvent(ET_CONNECT, uninit, connecting)
	sn.fsm.AddEvent(ET_OPEN, connecting, opened)
	sn.fsm.AddEvent(ET_CLOSE, uninit, closing)
	sn.fsm.AddEvent(ET_CLOSE, connecting, closing)
	sn.fsm.AddEvent(ET_CLOSE, opened, closing)
	sn.fsm.AddEvent(ET_CLOSE, closing, closing) // error path re-entry
	sn.fsm.AddEvent(ET_CLOSE, closed, closed)
	sn.fsm.AddEvent(ET_CLOSED, connecting, closed)
	sn.fsm.AddEvent(ET_CLOSED, opened, closed) // channel closed without error path
	sn.fsm.AddEvent(ET_CLOSED, closing, closed)
	sn.fsm.AddEvent(ET_CLOSED, closed, closed)
}

// Connect creates the one transport channel of this session and
// attaches the session as its delegate.
func (sn *Session) Connect() error {
	err := sn.fsm.EmitEvent(ET_CONNECT)
	if err != nil {
		sn.log.Errorf("emit ET_CONNECT err: %s, state: %s", err, sn.fsm.State())
		return err
	}
	channel, err := sn.channelFactory(sn)
	if err != nil {
		sn.fsm.EmitEvent(ET_CLOSE)
		sn.fsm.EmitEvent(ET_CLOSED)
		sn.cancel()
		sn.fini()
		return err
	}
	sn.chMtx.Lock()
	sn.channel = channel
	sn.chMtx.Unlock()
	return nil
}

func (sn *Session) State() string {
	return sn.fsm.State()
}

// ChannelOpened implements conn.Delegate.
func (sn *Session) ChannelOpened() {
	err := sn.fsm.EmitEvent(ET_OPEN)
	if err != nil {
		sn.log.Errorf("emit ET_OPEN err: %s, state: %s", err, sn.fsm.State())
		return
	}
	sn.log.Debugf("session opened")
	sn.evts.emitOpen()
}

// ChannelFrame implements conn.Delegate. All dispatch failures funnel
// into the one error path here, nothing propagates to the channel.
func (sn *Session) ChannelFrame(frame []byte) {
	err := sn.dispatch(frame)
	if err != nil {
		sn.fatal(err)
	}
}

// ChannelClosed implements conn.Delegate. This is the only place the
// channel reference is detached on a channel-originated close.
func (sn *Session) ChannelClosed() {
	sn.fsm.EmitEvent(ET_CLOSE)
	err := sn.fsm.EmitEvent(ET_CLOSED)
	if err != nil {
		sn.log.Errorf("emit ET_CLOSED err: %s, state: %s", err, sn.fsm.State())
	}
	sn.chMtx.Lock()
	sn.channel = nil
	sn.chMtx.Unlock()
	sn.cancel()
	sn.fini()
	sn.log.Debugf("session closed")
	sn.evts.emitClosed()
}

// fatal is the single error path: log, emit one fatal-error event,
// request channel close. Re-entry after the session left OPENED is
// log-only so a burst of late failures cannot storm the event surface.
func (sn *Session) fatal(err error) {
	sn.log.Errorf("session fatal err: %s, state: %s", err, sn.fsm.State())
	if sn.fsm.InStates(CLOSING, CLOSED) {
		return
	}
	sn.fsm.EmitEvent(ET_CLOSE)
	sn.evts.emitFatal(err)

	sn.chMtx.RLock()
	channel := sn.channel
	sn.chMtx.RUnlock()
	if channel != nil {
		channel.Close()
	} else {
		sn.fsm.EmitEvent(ET_CLOSED)
	}
}

// Shutdown removes every event subscriber, then requests channel close
// if one is live. Safe to call from any state, any number of times.
func (sn *Session) Shutdown() {
	sn.evts.removeAll()

	sn.chMtx.RLock()
	channel := sn.channel
	sn.chMtx.RUnlock()
	if channel != nil {
		channel.Close()
		return
	}
	sn.fsm.EmitEvent(ET_CLOSE)
	sn.fsm.EmitEvent(ET_CLOSED)
	sn.cancel()
	sn.fini()
}

// fini collects the session's correlation and timer resources once the
// channel is gone.
func (sn *Session) fini() {
	sn.finiOnce.Do(func() {
		sn.shub.Close()
		if !sn.tmrOutside {
			sn.tmr.Close()
		}
	})
}

func (sn *Session) addShare(directoryID uint32, provider sharedir.Provider) {
	sn.shareMtx.Lock()
	defer sn.shareMtx.Unlock()
	sn.shares[directoryID] = &share{provider: provider}
}

func (sn *Session) delShare(directoryID uint32) {
	sn.shareMtx.Lock()
	defer sn.shareMtx.Unlock()
	delete(sn.shares, directoryID)
}

func (sn *Session) activateShare(directoryID uint32) bool {
	sn.shareMtx.Lock()
	defer sn.shareMtx.Unlock()
	sh, ok := sn.shares[directoryID]
	if !ok {
		return false
	}
	sh.active = true
	return true
}

func (sn *Session) shareProvider(directoryID uint32) (sharedir.Provider, bool) {
	sn.shareMtx.RLock()
	defer sn.shareMtx.RUnlock()
	sh, ok := sn.shares[directoryID]
	if !ok {
		return nil, false
	}
	return sh.provider, true
}
