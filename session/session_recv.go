package session

import (
	"errors"
	"fmt"

	"github.com/rodrigorfk/teleport/packet"
)

var (
	// errLegacyMFA is user-facing: the legacy second factor cannot
	// complete this session.
	errLegacyMFA = errors.New("the peer requested a legacy U2F second factor, " +
		"which is not supported; register a WebAuthn authenticator and reconnect")
)

// dispatch routes one raw frame to exactly one handler by type. Every
// fallible step surfaces as the returned error; the caller owns the
// funnel into the error path. Unknown and unsupported-inbound types
// are logged and dropped, never fatal.
func (sn *Session) dispatch(frame []byte) error {
	typ, err := packet.Sniff(frame)
	if err != nil {
		return err
	}
	switch typ {
	case packet.TypeScreenFrame:
		return sn.handleInScreenFrame(frame)
	case packet.TypeClipboard:
		return sn.handleInClipboard(frame)
	case packet.TypeError:
		return sn.handleInError(frame)
	case packet.TypeMFA:
		return sn.handleInMFA(frame)
	case packet.TypeDirAcknowledge:
		return sn.handleInDirAcknowledge(frame)
	case packet.TypeDirInfoRequest:
		return sn.handleInDirInfoRequest(frame)
	case packet.TypeDirReadRequest:
		return sn.handleInDirReadRequest(frame)
	case packet.TypeDirWriteRequest:
		return sn.handleInDirWriteRequest(frame)
	case packet.TypeDirListRequest:
		return sn.handleInDirListRequest(frame)
	case packet.TypeScreenSpec, packet.TypePointerMove, packet.TypePointerButton,
		packet.TypeWheelScroll, packet.TypeKeyboard, packet.TypeUsername,
		packet.TypeDirAnnounce, packet.TypeDirInfoResponse, packet.TypeDirReadResponse,
		packet.TypeDirWriteResponse, packet.TypeDirListResponse:
		// structurally valid echoes of client-originated types; the
		// inbound direction is intentionally unimplemented
		sn.log.Debugf("unsupported inbound %s, dropped", typ.String())
		return nil
	default:
		sn.log.Infof("unknown packet type: 0x%02x, dropped", byte(typ))
		return nil
	}
}

func (sn *Session) handleInScreenFrame(frame []byte) error {
	pkt := &packet.ScreenFramePacket{}
	err := pkt.Decode(frame)
	if err != nil {
		return err
	}
	sn.evts.emitScreenFrame(pkt)
	return nil
}

func (sn *Session) handleInClipboard(frame []byte) error {
	pkt := &packet.ClipboardPacket{}
	err := pkt.Decode(frame)
	if err != nil {
		return err
	}
	sn.evts.emitClipboard(pkt.Data)
	return nil
}

func (sn *Session) handleInError(frame []byte) error {
	pkt := &packet.ErrorPacket{}
	err := pkt.Decode(frame)
	if err != nil {
		return err
	}
	return fmt.Errorf("peer error: %s", pkt.Message)
}

func (sn *Session) handleInMFA(frame []byte) error {
	pkt := &packet.MFAPacket{}
	err := pkt.Decode(frame)
	if err != nil {
		return err
	}
	switch pkt.MFAType {
	case packet.MFATypeWebauthn:
		sn.log.Debugf("mfa challenge received")
		sn.evts.emitMFAChallenge(pkt.JSON)
		return nil
	case packet.MFATypeU2F:
		return errLegacyMFA
	default:
		return fmt.Errorf("unknown mfa payload tag: 0x%02x", byte(pkt.MFAType))
	}
}

func (sn *Session) handleInDirAcknowledge(frame []byte) error {
	pkt := &packet.DirAcknowledgePacket{}
	err := pkt.Decode(frame)
	if err != nil {
		return err
	}
	if pkt.ErrCode != packet.ErrCodeNone {
		err = fmt.Errorf("directory share rejected: %s, directoryID: %d",
			pkt.ErrCode.String(), pkt.DirectoryID)
		sn.shub.Error(announceKey(pkt.DirectoryID), err)
		return err
	}
	if !sn.activateShare(pkt.DirectoryID) {
		return fmt.Errorf("acknowledge for unannounced directoryID: %d", pkt.DirectoryID)
	}
	sn.log.Infof("directory share active, directoryID: %d", pkt.DirectoryID)
	sn.shub.Done(announceKey(pkt.DirectoryID))
	return nil
}
