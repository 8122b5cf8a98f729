package packet

import (
	"encoding/binary"
)

const (
	// frame header: type byte + uint32 payload length
	HeaderLen = 5

	// upper bound for a single payload, screen frames included
	MaxPayloadLen = 1 << 26

	// largest data slice a read response frame can carry next to its
	// completion id, error code and length prefix
	MaxReadDataLen = MaxPayloadLen - 16
)

const (
	DirectoryIDNull uint32 = 0
)

type Packet interface {
	Decode(frame []byte) error
	Encode() ([]byte, error)

	Type() Type
}

type Type byte

func (typ Type) String() string {
	switch typ {
	case TypeScreenSpec:
		return "screen spec packet"
	case TypeScreenFrame:
		return "screen frame packet"
	case TypePointerMove:
		return "pointer move packet"
	case TypePointerButton:
		return "pointer button packet"
	case TypeWheelScroll:
		return "wheel scroll packet"
	case TypeKeyboard:
		return "keyboard packet"
	case TypeClipboard:
		return "clipboard packet"
	case TypeUsername:
		return "username packet"
	case TypeError:
		return "error packet"
	case TypeMFA:
		return "mfa packet"
	case TypeDirAnnounce:
		return "dir announce packet"
	case TypeDirAcknowledge:
		return "dir acknowledge packet"
	case TypeDirInfoRequest:
		return "dir info request packet"
	case TypeDirInfoResponse:
		return "dir info response packet"
	case TypeDirReadRequest:
		return "dir read request packet"
	case TypeDirReadResponse:
		return "dir read response packet"
	case TypeDirWriteRequest:
		return "dir write request packet"
	case TypeDirWriteResponse:
		return "dir write response packet"
	case TypeDirListRequest:
		return "dir list request packet"
	case TypeDirListResponse:
		return "dir list response packet"
	}
	return "unknown packet"
}

const (
	TypeScreenSpec       Type = 0x01
	TypeScreenFrame      Type = 0x02
	TypePointerMove      Type = 0x11
	TypePointerButton    Type = 0x12
	TypeWheelScroll      Type = 0x13
	TypeKeyboard         Type = 0x14
	TypeClipboard        Type = 0x21
	TypeUsername         Type = 0x31
	TypeError            Type = 0x41
	TypeMFA              Type = 0x51
	TypeDirAnnounce      Type = 0x61
	TypeDirAcknowledge   Type = 0x62
	TypeDirInfoRequest   Type = 0x63
	TypeDirInfoResponse  Type = 0x64
	TypeDirReadRequest   Type = 0x65
	TypeDirReadResponse  Type = 0x66
	TypeDirWriteRequest  Type = 0x67
	TypeDirWriteResponse Type = 0x68
	TypeDirListRequest   Type = 0x69
	TypeDirListResponse  Type = 0x6A
)

// ErrCode signals an operation outcome in-band within a response
// payload. Any code other than ErrCodeNone means the remaining
// response fields carry placeholder values only.
type ErrCode byte

const (
	ErrCodeNone          ErrCode = 0x00
	ErrCodeFailed        ErrCode = 0x01
	ErrCodeDoesNotExist  ErrCode = 0x02
	ErrCodeAlreadyExists ErrCode = 0x03
)

func (ec ErrCode) String() string {
	switch ec {
	case ErrCodeNone:
		return "no error"
	case ErrCodeFailed:
		return "failed"
	case ErrCodeDoesNotExist:
		return "does not exist"
	case ErrCodeAlreadyExists:
		return "already exists"
	}
	return "unknown error code"
}

type EntryKind byte

const (
	EntryFile EntryKind = 0x00
	EntryDir  EntryKind = 0x01
)

// dirEntryMinLen is the wire size of a DirEntry with an empty path:
// path length prefix, kind, size, last modified.
const dirEntryMinLen = 4 + 1 + 8 + 8

// DirEntry is the wire shape of one shared-directory entry.
type DirEntry struct {
	Path         string
	Kind         EntryKind
	Size         uint64
	LastModified uint64
}

func (entry *DirEntry) encodeTo(wr *fieldWriter) {
	wr.putString(entry.Path)
	wr.putUint8(byte(entry.Kind))
	wr.putUint64(entry.Size)
	wr.putUint64(entry.LastModified)
}

func (entry *DirEntry) decodeFrom(rd *fieldReader) error {
	path, err := rd.string()
	if err != nil {
		return err
	}
	kind, err := rd.uint8()
	if err != nil {
		return err
	}
	size, err := rd.uint64()
	if err != nil {
		return err
	}
	modified, err := rd.uint64()
	if err != nil {
		return err
	}
	entry.Path = path
	entry.Kind = EntryKind(kind)
	entry.Size = size
	entry.LastModified = modified
	return nil
}

func newFrame(typ Type, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, ErrIllegalPacket
	}
	frame := make([]byte, HeaderLen+len(payload))
	frame[0] = byte(typ)
	binary.BigEndian.PutUint32(frame[1:HeaderLen], uint32(len(payload)))
	copy(frame[HeaderLen:], payload)
	return frame, nil
}

// payloadOf validates the frame header against typ and returns the payload.
func payloadOf(frame []byte, typ Type) ([]byte, error) {
	if len(frame) < HeaderLen {
		return nil, ErrIncompletePacket
	}
	if Type(frame[0]) != typ {
		return nil, ErrMismatchedType
	}
	length := binary.BigEndian.Uint32(frame[1:HeaderLen])
	if uint32(len(frame)-HeaderLen) < length {
		return nil, ErrIncompletePacket
	}
	return frame[HeaderLen : HeaderLen+int(length)], nil
}
