package session

import (
	"github.com/jumboframes/armorigo/synchub"
	"github.com/rodrigorfk/teleport/packet"
	"github.com/rodrigorfk/teleport/sharedir"
)

// announceKey correlates a directory announce with its acknowledge.
type announceKey uint32

// send is the one outbound path: readiness check, encode, write. No
// failure reaches the caller, every one lands on the error path.
func (sn *Session) send(pkt packet.Packet) {
	sn.chMtx.RLock()
	channel := sn.channel
	sn.chMtx.RUnlock()
	if channel == nil || !channel.Ready() {
		sn.fatal(ErrTransportUnavailable)
		return
	}
	frame, err := pkt.Encode()
	if err != nil {
		sn.fatal(err)
		return
	}
	err = channel.Send(frame)
	if err != nil {
		sn.fatal(err)
		return
	}
	sn.log.Tracef("send succeed, packetType: %s", pkt.Type().String())
}

func (sn *Session) SendScreenSpec(width, height uint32) {
	sn.send(sn.pf.NewScreenSpecPacket(width, height))
}

func (sn *Session) SendUsername(username string) {
	sn.send(sn.pf.NewUsernamePacket(username))
}

func (sn *Session) SendPointerMove(x, y uint32) {
	sn.send(sn.pf.NewPointerMovePacket(x, y))
}

func (sn *Session) SendPointerButton(button packet.PointerButton, pressed bool) {
	sn.send(sn.pf.NewPointerButtonPacket(button, pressed))
}

func (sn *Session) SendWheelScroll(axis packet.WheelAxis, delta int16) {
	sn.send(sn.pf.NewWheelScrollPacket(axis, delta))
}

// SendKeyboardButton sends nothing at all for key codes without a scan
// code mapping.
func (sn *Session) SendKeyboardButton(code string, pressed bool) {
	pkt := sn.pf.NewKeyboardPacket(code, pressed)
	if pkt == nil {
		sn.log.Tracef("unrecognized key code, nothing sent, code: %s", code)
		return
	}
	sn.send(pkt)
}

func (sn *Session) SendClipboardData(data []byte) {
	sn.send(sn.pf.NewClipboardPacket(data))
}

// SendMFAResponse answers a previously emitted challenge with the
// assertion JSON.
func (sn *Session) SendMFAResponse(json string) {
	sn.send(sn.pf.NewMFAResponsePacket(packet.MFATypeWebauthn, json))
}

// AnnounceDirectory offers the provider's tree to the peer and waits
// for the acknowledge. On success the returned directory id is live
// for the rest of the session.
func (sn *Session) AnnounceDirectory(provider sharedir.Provider) (uint32, error) {
	if sn.fsm.InStates(CLOSING, CLOSED) {
		return packet.DirectoryIDNull, ErrSessionClosed
	}
	pkt := sn.pf.NewDirAnnouncePacket(provider.Name())
	sn.addShare(pkt.DirectoryID, provider)

	sync := sn.shub.New(announceKey(pkt.DirectoryID),
		synchub.WithTimeout(sn.announceTimeout))
	sn.send(pkt)

	event := <-sync.C()
	if event.Error != nil {
		sn.log.Errorf("announce err: %s, directoryID: %d, name: %s",
			event.Error, pkt.DirectoryID, provider.Name())
		sn.delShare(pkt.DirectoryID)
		return packet.DirectoryIDNull, event.Error
	}
	sn.log.Debugf("announce succeed, directoryID: %d, name: %s",
		pkt.DirectoryID, provider.Name())
	return pkt.DirectoryID, nil
}
