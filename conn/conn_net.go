package conn

import (
	"io"
	"net"
	"sync"

	"github.com/jumboframes/armorigo/log"
	"github.com/rodrigorfk/teleport/packet"
)

type channelOpts struct {
	log log.Logger
}

type netChannel struct {
	channelOpts
	dlgt    Delegate
	netconn net.Conn

	closeOnce *sync.Once

	connOK  bool
	connMtx sync.RWMutex
}

type ChannelOption func(*netChannel) error

func OptionChannelLogger(log log.Logger) ChannelOption {
	return func(nc *netChannel) error {
		nc.log = log
		return nil
	}
}

func NewChannel(netconn net.Conn, dlgt Delegate, opts ...ChannelOption) (Channel, error) {
	return newChannel(netconn, dlgt, opts...)
}

func NewChannelWithDialer(dialer Dialer, dlgt Delegate, opts ...ChannelOption) (Channel, error) {
	netconn, err := dialer()
	if err != nil {
		return nil, err
	}
	return newChannel(netconn, dlgt, opts...)
}

func newChannel(netconn net.Conn, dlgt Delegate, opts ...ChannelOption) (Channel, error) {
	if netconn == nil || dlgt == nil {
		return nil, packet.ErrInvalidArguments
	}
	nc := &netChannel{
		dlgt:      dlgt,
		netconn:   netconn,
		closeOnce: new(sync.Once),
		connOK:    true,
	}
	for _, opt := range opts {
		err := opt(nc)
		if err != nil {
			return nil, err
		}
	}
	if nc.log == nil {
		nc.log = log.DefaultLog
	}
	go nc.readFrame()
	return nc, nil
}

func (nc *netChannel) Ready() bool {
	nc.connMtx.RLock()
	defer nc.connMtx.RUnlock()
	return nc.connOK
}

func (nc *netChannel) Send(frame []byte) error {
	nc.connMtx.RLock()
	defer nc.connMtx.RUnlock()
	if !nc.connOK {
		return io.EOF
	}
	length := len(frame)
	pos := 0
	for {
		m, err := nc.netconn.Write(frame[pos:length])
		if err != nil {
			nc.log.Errorf("channel write down err: %s, remote: %s",
				err, nc.netconn.RemoteAddr())
			return err
		}
		pos += m
		if pos == length {
			return nil
		}
	}
}

func (nc *netChannel) Close() {
	nc.closeOnce.Do(func() {
		nc.log.Debugf("channel is closing, remote: %s", nc.netconn.RemoteAddr())
		nc.connMtx.Lock()
		nc.connOK = false
		nc.connMtx.Unlock()
		// unblocks the read loop, which fires ChannelClosed
		nc.netconn.Close()
	})
}

func (nc *netChannel) readFrame() {
	nc.dlgt.ChannelOpened()
	for {
		frame, err := packet.ReadFrame(nc.netconn)
		if err != nil {
			if err == io.EOF {
				nc.log.Infof("channel read down EOF, remote: %s", nc.netconn.RemoteAddr())
			} else {
				nc.log.Infof("channel read down err: %s, remote: %s",
					err, nc.netconn.RemoteAddr())
			}
			goto FINI
		}
		nc.dlgt.ChannelFrame(frame)
	}
FINI:
	nc.Close()
	nc.dlgt.ChannelClosed()
}
