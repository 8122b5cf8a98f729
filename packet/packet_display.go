package packet

// ScreenFramePacket carries one rendered region: destination bounds
// plus an opaque encoded bitmap. The bitmap stays undecoded here, the
// consumer owns pixel decoding.
type ScreenFramePacket struct {
	Left   uint32
	Top    uint32
	Right  uint32
	Bottom uint32
	Bitmap []byte
}

func (pkt *ScreenFramePacket) Type() Type {
	return TypeScreenFrame
}

func (pkt *ScreenFramePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.Left)
	wr.putUint32(pkt.Top)
	wr.putUint32(pkt.Right)
	wr.putUint32(pkt.Bottom)
	wr.putBytes(pkt.Bitmap)
	return newFrame(TypeScreenFrame, wr.payload())
}

func (pkt *ScreenFramePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeScreenFrame)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	left, err := rd.uint32()
	if err != nil {
		return err
	}
	top, err := rd.uint32()
	if err != nil {
		return err
	}
	right, err := rd.uint32()
	if err != nil {
		return err
	}
	bottom, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.Left, pkt.Top, pkt.Right, pkt.Bottom = left, top, right, bottom
	pkt.Bitmap = rd.rest()
	return nil
}

type ClipboardPacket struct {
	Data []byte
}

func (pkt *ClipboardPacket) Type() Type {
	return TypeClipboard
}

func (pkt *ClipboardPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(uint32(len(pkt.Data)))
	wr.putBytes(pkt.Data)
	return newFrame(TypeClipboard, wr.payload())
}

func (pkt *ClipboardPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeClipboard)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	length, err := rd.uint32()
	if err != nil {
		return err
	}
	data, err := rd.bytes(int(length))
	if err != nil {
		return err
	}
	pkt.Data = data
	return nil
}

// ErrorPacket is a peer-reported terminal error.
type ErrorPacket struct {
	Message string
}

func (pkt *ErrorPacket) Type() Type {
	return TypeError
}

func (pkt *ErrorPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putString(pkt.Message)
	return newFrame(TypeError, wr.payload())
}

func (pkt *ErrorPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeError)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	message, err := rd.string()
	if err != nil {
		return err
	}
	pkt.Message = message
	return nil
}
