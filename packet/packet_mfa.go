package packet

// MFAType tags the JSON payload of an MFA packet.
type MFAType byte

const (
	// MFATypeWebauthn carries a webauthn challenge or assertion.
	MFATypeWebauthn MFAType = 'n'
	// MFATypeU2F is the legacy second-factor tag. Inbound challenges
	// with this tag are terminal for the session.
	MFATypeU2F MFAType = 'u'
)

type MFAPacket struct {
	MFAType MFAType
	JSON    string
}

func (pkt *MFAPacket) Type() Type {
	return TypeMFA
}

func (pkt *MFAPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint8(byte(pkt.MFAType))
	wr.putString(pkt.JSON)
	return newFrame(TypeMFA, wr.payload())
}

func (pkt *MFAPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeMFA)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	mfaType, err := rd.uint8()
	if err != nil {
		return err
	}
	raw, err := rd.string()
	if err != nil {
		return err
	}
	pkt.MFAType = MFAType(mfaType)
	pkt.JSON = raw
	return nil
}
