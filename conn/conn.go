package conn

import (
	"net"
)

type Dialer func() (net.Conn, error)

// Delegate receives the channel's lifecycle signals. Transport-level
// errors are not surfaced separately, every failure collapses into
// ChannelClosed; the close signal is the single source of truth for
// channel termination.
type Delegate interface {
	ChannelOpened()
	ChannelFrame(frame []byte)
	ChannelClosed()
}

// Channel is one duplex binary connection carrying whole frames.
type Channel interface {
	// Ready reports whether Send can reach the peer.
	Ready() bool
	Send(frame []byte) error
	Close()
}
