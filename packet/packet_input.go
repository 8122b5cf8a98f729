package packet

// ScreenSpecPacket tells the peer the client's render area size.
type ScreenSpecPacket struct {
	Width  uint32
	Height uint32
}

func (pkt *ScreenSpecPacket) Type() Type {
	return TypeScreenSpec
}

func (pkt *ScreenSpecPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.Width)
	wr.putUint32(pkt.Height)
	return newFrame(TypeScreenSpec, wr.payload())
}

func (pkt *ScreenSpecPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeScreenSpec)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	width, err := rd.uint32()
	if err != nil {
		return err
	}
	height, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.Width, pkt.Height = width, height
	return nil
}

type PointerMovePacket struct {
	X uint32
	Y uint32
}

func (pkt *PointerMovePacket) Type() Type {
	return TypePointerMove
}

func (pkt *PointerMovePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.X)
	wr.putUint32(pkt.Y)
	return newFrame(TypePointerMove, wr.payload())
}

func (pkt *PointerMovePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypePointerMove)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	x, err := rd.uint32()
	if err != nil {
		return err
	}
	y, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.X, pkt.Y = x, y
	return nil
}

type PointerButton byte

const (
	PointerButtonLeft   PointerButton = 0x00
	PointerButtonMiddle PointerButton = 0x01
	PointerButtonRight  PointerButton = 0x02
)

type PointerButtonPacket struct {
	Button  PointerButton
	Pressed bool
}

func (pkt *PointerButtonPacket) Type() Type {
	return TypePointerButton
}

func (pkt *PointerButtonPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint8(byte(pkt.Button))
	wr.putUint8(encodeBool(pkt.Pressed))
	return newFrame(TypePointerButton, wr.payload())
}

func (pkt *PointerButtonPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypePointerButton)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	button, err := rd.uint8()
	if err != nil {
		return err
	}
	pressed, err := rd.uint8()
	if err != nil {
		return err
	}
	pkt.Button = PointerButton(button)
	pkt.Pressed = pressed != 0
	return nil
}

type WheelAxis byte

const (
	WheelAxisVertical   WheelAxis = 0x00
	WheelAxisHorizontal WheelAxis = 0x01
)

type WheelScrollPacket struct {
	Axis  WheelAxis
	Delta int16
}

func (pkt *WheelScrollPacket) Type() Type {
	return TypeWheelScroll
}

func (pkt *WheelScrollPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint8(byte(pkt.Axis))
	wr.putUint16(uint16(pkt.Delta))
	return newFrame(TypeWheelScroll, wr.payload())
}

func (pkt *WheelScrollPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeWheelScroll)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	axis, err := rd.uint8()
	if err != nil {
		return err
	}
	delta, err := rd.uint16()
	if err != nil {
		return err
	}
	pkt.Axis = WheelAxis(axis)
	pkt.Delta = int16(delta)
	return nil
}

type KeyboardPacket struct {
	ScanCode uint32
	Pressed  bool
}

func (pkt *KeyboardPacket) Type() Type {
	return TypeKeyboard
}

func (pkt *KeyboardPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.ScanCode)
	wr.putUint8(encodeBool(pkt.Pressed))
	return newFrame(TypeKeyboard, wr.payload())
}

func (pkt *KeyboardPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeKeyboard)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	scanCode, err := rd.uint32()
	if err != nil {
		return err
	}
	pressed, err := rd.uint8()
	if err != nil {
		return err
	}
	pkt.ScanCode = scanCode
	pkt.Pressed = pressed != 0
	return nil
}

type UsernamePacket struct {
	Username string
}

func (pkt *UsernamePacket) Type() Type {
	return TypeUsername
}

func (pkt *UsernamePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putString(pkt.Username)
	return newFrame(TypeUsername, wr.payload())
}

func (pkt *UsernamePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeUsername)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	username, err := rd.string()
	if err != nil {
		return err
	}
	pkt.Username = username
	return nil
}

func encodeBool(v bool) byte {
	if v {
		return 0x01
	}
	return 0x00
}
