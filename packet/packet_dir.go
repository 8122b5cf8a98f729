package packet

// The shared-directory family. Requests carry a completion id chosen
// by the requester; the matching response echoes it verbatim. Response
// packets are built through the factory, which sources the completion
// id from the request itself.

type DirAnnouncePacket struct {
	DirectoryID uint32
	Name        string
}

func (pkt *DirAnnouncePacket) Type() Type {
	return TypeDirAnnounce
}

func (pkt *DirAnnouncePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.DirectoryID)
	wr.putString(pkt.Name)
	return newFrame(TypeDirAnnounce, wr.payload())
}

func (pkt *DirAnnouncePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirAnnounce)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	name, err := rd.string()
	if err != nil {
		return err
	}
	pkt.DirectoryID = directoryID
	pkt.Name = name
	return nil
}

type DirAcknowledgePacket struct {
	ErrCode     ErrCode
	DirectoryID uint32
}

func (pkt *DirAcknowledgePacket) Type() Type {
	return TypeDirAcknowledge
}

func (pkt *DirAcknowledgePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint8(byte(pkt.ErrCode))
	wr.putUint32(pkt.DirectoryID)
	return newFrame(TypeDirAcknowledge, wr.payload())
}

func (pkt *DirAcknowledgePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirAcknowledge)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	errCode, err := rd.uint8()
	if err != nil {
		return err
	}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.ErrCode = ErrCode(errCode)
	pkt.DirectoryID = directoryID
	return nil
}

type DirInfoRequestPacket struct {
	CompletionID uint32
	DirectoryID  uint32
	Path         string
}

func (pkt *DirInfoRequestPacket) Type() Type {
	return TypeDirInfoRequest
}

func (pkt *DirInfoRequestPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint32(pkt.DirectoryID)
	wr.putString(pkt.Path)
	return newFrame(TypeDirInfoRequest, wr.payload())
}

func (pkt *DirInfoRequestPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirInfoRequest)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	path, err := rd.string()
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.DirectoryID = directoryID
	pkt.Path = path
	return nil
}

type DirInfoResponsePacket struct {
	CompletionID uint32
	ErrCode      ErrCode
	Entry        DirEntry
}

func (pkt *DirInfoResponsePacket) Type() Type {
	return TypeDirInfoResponse
}

func (pkt *DirInfoResponsePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint8(byte(pkt.ErrCode))
	pkt.Entry.encodeTo(wr)
	return newFrame(TypeDirInfoResponse, wr.payload())
}

func (pkt *DirInfoResponsePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirInfoResponse)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	errCode, err := rd.uint8()
	if err != nil {
		return err
	}
	entry := DirEntry{}
	err = entry.decodeFrom(rd)
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.ErrCode = ErrCode(errCode)
	pkt.Entry = entry
	return nil
}

type DirReadRequestPacket struct {
	CompletionID uint32
	DirectoryID  uint32
	Path         string
	Offset       uint64
	Length       uint32
}

func (pkt *DirReadRequestPacket) Type() Type {
	return TypeDirReadRequest
}

func (pkt *DirReadRequestPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint32(pkt.DirectoryID)
	wr.putString(pkt.Path)
	wr.putUint64(pkt.Offset)
	wr.putUint32(pkt.Length)
	return newFrame(TypeDirReadRequest, wr.payload())
}

func (pkt *DirReadRequestPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirReadRequest)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	path, err := rd.string()
	if err != nil {
		return err
	}
	offset, err := rd.uint64()
	if err != nil {
		return err
	}
	length, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.DirectoryID = directoryID
	pkt.Path = path
	pkt.Offset = offset
	pkt.Length = length
	return nil
}

type DirReadResponsePacket struct {
	CompletionID uint32
	ErrCode      ErrCode
	Data         []byte
}

func (pkt *DirReadResponsePacket) Type() Type {
	return TypeDirReadResponse
}

func (pkt *DirReadResponsePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint8(byte(pkt.ErrCode))
	wr.putUint32(uint32(len(pkt.Data)))
	wr.putBytes(pkt.Data)
	return newFrame(TypeDirReadResponse, wr.payload())
}

func (pkt *DirReadResponsePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirReadResponse)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	errCode, err := rd.uint8()
	if err != nil {
		return err
	}
	length, err := rd.uint32()
	if err != nil {
		return err
	}
	data, err := rd.bytes(int(length))
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.ErrCode = ErrCode(errCode)
	pkt.Data = data
	return nil
}

type DirWriteRequestPacket struct {
	CompletionID uint32
	DirectoryID  uint32
	Offset       uint64
	Path         string
	Data         []byte
}

func (pkt *DirWriteRequestPacket) Type() Type {
	return TypeDirWriteRequest
}

func (pkt *DirWriteRequestPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint32(pkt.DirectoryID)
	wr.putUint64(pkt.Offset)
	wr.putString(pkt.Path)
	wr.putUint32(uint32(len(pkt.Data)))
	wr.putBytes(pkt.Data)
	return newFrame(TypeDirWriteRequest, wr.payload())
}

func (pkt *DirWriteRequestPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirWriteRequest)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	offset, err := rd.uint64()
	if err != nil {
		return err
	}
	path, err := rd.string()
	if err != nil {
		return err
	}
	length, err := rd.uint32()
	if err != nil {
		return err
	}
	data, err := rd.bytes(int(length))
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.DirectoryID = directoryID
	pkt.Offset = offset
	pkt.Path = path
	pkt.Data = data
	return nil
}

// DirWriteResponsePacket completes the wire vocabulary. The session
// side never constructs one, the write leg of the protocol is not yet
// answered.
type DirWriteResponsePacket struct {
	CompletionID uint32
	ErrCode      ErrCode
	BytesWritten uint32
}

func (pkt *DirWriteResponsePacket) Type() Type {
	return TypeDirWriteResponse
}

func (pkt *DirWriteResponsePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint8(byte(pkt.ErrCode))
	wr.putUint32(pkt.BytesWritten)
	return newFrame(TypeDirWriteResponse, wr.payload())
}

func (pkt *DirWriteResponsePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirWriteResponse)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	errCode, err := rd.uint8()
	if err != nil {
		return err
	}
	written, err := rd.uint32()
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.ErrCode = ErrCode(errCode)
	pkt.BytesWritten = written
	return nil
}

type DirListRequestPacket struct {
	CompletionID uint32
	DirectoryID  uint32
	Path         string
}

func (pkt *DirListRequestPacket) Type() Type {
	return TypeDirListRequest
}

func (pkt *DirListRequestPacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint32(pkt.DirectoryID)
	wr.putString(pkt.Path)
	return newFrame(TypeDirListRequest, wr.payload())
}

func (pkt *DirListRequestPacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirListRequest)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	directoryID, err := rd.uint32()
	if err != nil {
		return err
	}
	path, err := rd.string()
	if err != nil {
		return err
	}
	pkt.CompletionID = completionID
	pkt.DirectoryID = directoryID
	pkt.Path = path
	return nil
}

type DirListResponsePacket struct {
	CompletionID uint32
	ErrCode      ErrCode
	Entries      []DirEntry
}

func (pkt *DirListResponsePacket) Type() Type {
	return TypeDirListResponse
}

func (pkt *DirListResponsePacket) Encode() ([]byte, error) {
	wr := &fieldWriter{}
	wr.putUint32(pkt.CompletionID)
	wr.putUint8(byte(pkt.ErrCode))
	wr.putUint32(uint32(len(pkt.Entries)))
	for i := range pkt.Entries {
		pkt.Entries[i].encodeTo(wr)
	}
	return newFrame(TypeDirListResponse, wr.payload())
}

func (pkt *DirListResponsePacket) Decode(frame []byte) error {
	payload, err := payloadOf(frame, TypeDirListResponse)
	if err != nil {
		return err
	}
	rd := &fieldReader{data: payload}
	completionID, err := rd.uint32()
	if err != nil {
		return err
	}
	errCode, err := rd.uint8()
	if err != nil {
		return err
	}
	count, err := rd.uint32()
	if err != nil {
		return err
	}
	// the claimed count is untrusted, cap the pre-size by what the
	// remaining payload could possibly hold
	capacity := int(count)
	if most := rd.remaining() / dirEntryMinLen; capacity > most {
		capacity = most
	}
	entries := make([]DirEntry, 0, capacity)
	for i := uint32(0); i < count; i++ {
		entry := DirEntry{}
		err = entry.decodeFrom(rd)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	pkt.CompletionID = completionID
	pkt.ErrCode = ErrCode(errCode)
	pkt.Entries = entries
	return nil
}
