package packet

import (
	"github.com/rodrigorfk/teleport/pkg/id"
)

type PacketFactory struct {
	directoryIDs *id.IDCounter
}

func NewPacketFactory(directoryIDs *id.IDCounter) *PacketFactory {
	return &PacketFactory{
		directoryIDs: directoryIDs,
	}
}

func (pf *PacketFactory) NewScreenSpecPacket(width, height uint32) *ScreenSpecPacket {
	return &ScreenSpecPacket{
		Width:  width,
		Height: height,
	}
}

func (pf *PacketFactory) NewUsernamePacket(username string) *UsernamePacket {
	return &UsernamePacket{
		Username: username,
	}
}

func (pf *PacketFactory) NewPointerMovePacket(x, y uint32) *PointerMovePacket {
	return &PointerMovePacket{
		X: x,
		Y: y,
	}
}

func (pf *PacketFactory) NewPointerButtonPacket(button PointerButton, pressed bool) *PointerButtonPacket {
	return &PointerButtonPacket{
		Button:  button,
		Pressed: pressed,
	}
}

func (pf *PacketFactory) NewWheelScrollPacket(axis WheelAxis, delta int16) *WheelScrollPacket {
	return &WheelScrollPacket{
		Axis:  axis,
		Delta: delta,
	}
}

// NewKeyboardPacket returns nil for key codes with no scan code
// mapping. A nil packet means nothing goes on the wire.
func (pf *PacketFactory) NewKeyboardPacket(code string, pressed bool) *KeyboardPacket {
	scanCode, ok := LookupScanCode(code)
	if !ok {
		return nil
	}
	return &KeyboardPacket{
		ScanCode: scanCode,
		Pressed:  pressed,
	}
}

func (pf *PacketFactory) NewClipboardPacket(data []byte) *ClipboardPacket {
	return &ClipboardPacket{
		Data: data,
	}
}

func (pf *PacketFactory) NewMFAResponsePacket(mfaType MFAType, json string) *MFAPacket {
	return &MFAPacket{
		MFAType: mfaType,
		JSON:    json,
	}
}

func (pf *PacketFactory) NewErrorPacket(message string) *ErrorPacket {
	return &ErrorPacket{
		Message: message,
	}
}

// NewDirAnnouncePacket allocates a fresh directory id for the share.
func (pf *PacketFactory) NewDirAnnouncePacket(name string) *DirAnnouncePacket {
	return &DirAnnouncePacket{
		DirectoryID: pf.directoryIDs.GetID(),
		Name:        name,
	}
}

// Response constructors take the request packet, the completion id of
// a response has nowhere else to come from.

func (pf *PacketFactory) NewDirInfoResponsePacket(req *DirInfoRequestPacket, errCode ErrCode, entry DirEntry) *DirInfoResponsePacket {
	return &DirInfoResponsePacket{
		CompletionID: req.CompletionID,
		ErrCode:      errCode,
		Entry:        entry,
	}
}

// NewDirInfoNotFoundPacket is the in-band negative info result:
// placeholder descriptor fields, the request's own path echoed back.
func (pf *PacketFactory) NewDirInfoNotFoundPacket(req *DirInfoRequestPacket) *DirInfoResponsePacket {
	return &DirInfoResponsePacket{
		CompletionID: req.CompletionID,
		ErrCode:      ErrCodeDoesNotExist,
		Entry: DirEntry{
			Path:         req.Path,
			Kind:         EntryFile,
			Size:         0,
			LastModified: 0,
		},
	}
}

func (pf *PacketFactory) NewDirReadResponsePacket(req *DirReadRequestPacket, errCode ErrCode, data []byte) *DirReadResponsePacket {
	return &DirReadResponsePacket{
		CompletionID: req.CompletionID,
		ErrCode:      errCode,
		Data:         data,
	}
}

func (pf *PacketFactory) NewDirListResponsePacket(req *DirListRequestPacket, errCode ErrCode, entries []DirEntry) *DirListResponsePacket {
	return &DirListResponsePacket{
		CompletionID: req.CompletionID,
		ErrCode:      errCode,
		Entries:      entries,
	}
}
