package packet

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrUnsupportedPacket = errors.New("unsupported packet")
	ErrIncompletePacket  = errors.New("incomplete packet")
	ErrMismatchedType    = errors.New("mismatched packet type")
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrIllegalPacket     = errors.New("illegal packet")
)

// Sniff reads the type discriminant without decoding the payload.
func Sniff(frame []byte) (Type, error) {
	if len(frame) < HeaderLen {
		return 0, ErrIncompletePacket
	}
	return Type(frame[0]), nil
}

// ReadFrame reads exactly one raw frame, header included, off the wire.
func ReadFrame(reader io.Reader) ([]byte, error) {
	if reader == nil {
		return nil, ErrInvalidArguments
	}
	hdr := make([]byte, HeaderLen)
	_, err := io.ReadFull(reader, hdr)
	if err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(hdr[1:HeaderLen])
	if length > MaxPayloadLen {
		return nil, ErrIllegalPacket
	}
	frame := make([]byte, HeaderLen+int(length))
	copy(frame, hdr)
	_, err = io.ReadFull(reader, frame[HeaderLen:])
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Decode sniffs the frame type and decodes the matching packet. The
// result is fully populated or the error is non-nil, never both halves.
func Decode(frame []byte) (Packet, error) {
	typ, err := Sniff(frame)
	if err != nil {
		return nil, err
	}

	var pkt Packet
	switch typ {
	case TypeScreenSpec:
		pkt = &ScreenSpecPacket{}
	case TypeScreenFrame:
		pkt = &ScreenFramePacket{}
	case TypePointerMove:
		pkt = &PointerMovePacket{}
	case TypePointerButton:
		pkt = &PointerButtonPacket{}
	case TypeWheelScroll:
		pkt = &WheelScrollPacket{}
	case TypeKeyboard:
		pkt = &KeyboardPacket{}
	case TypeClipboard:
		pkt = &ClipboardPacket{}
	case TypeUsername:
		pkt = &UsernamePacket{}
	case TypeError:
		pkt = &ErrorPacket{}
	case TypeMFA:
		pkt = &MFAPacket{}
	case TypeDirAnnounce:
		pkt = &DirAnnouncePacket{}
	case TypeDirAcknowledge:
		pkt = &DirAcknowledgePacket{}
	case TypeDirInfoRequest:
		pkt = &DirInfoRequestPacket{}
	case TypeDirInfoResponse:
		pkt = &DirInfoResponsePacket{}
	case TypeDirReadRequest:
		pkt = &DirReadRequestPacket{}
	case TypeDirReadResponse:
		pkt = &DirReadResponsePacket{}
	case TypeDirWriteRequest:
		pkt = &DirWriteRequestPacket{}
	case TypeDirWriteResponse:
		pkt = &DirWriteResponsePacket{}
	case TypeDirListRequest:
		pkt = &DirListRequestPacket{}
	case TypeDirListResponse:
		pkt = &DirListResponsePacket{}
	default:
		return nil, ErrUnsupportedPacket
	}

	err = pkt.Decode(frame)
	if err != nil {
		return nil, err
	}
	return pkt, nil
}

func Encode(pkt Packet) ([]byte, error) {
	return pkt.Encode()
}

func EncodeToWriter(pkt Packet, writer io.Writer) error {
	frame, err := pkt.Encode()
	if err != nil {
		return err
	}
	length := len(frame)
	pos := 0
	for {
		m, err := writer.Write(frame[pos:length])
		if err != nil {
			return err
		}
		pos += m
		if pos == length {
			break
		}
	}
	return nil
}
