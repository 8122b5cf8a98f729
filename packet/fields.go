package packet

import (
	"bytes"
	"encoding/binary"
)

// fieldWriter accumulates payload fields, strings prefixed with a
// uint32 length.
type fieldWriter struct {
	buf bytes.Buffer
}

func (wr *fieldWriter) putUint8(v byte) {
	wr.buf.WriteByte(v)
}

func (wr *fieldWriter) putUint16(v uint16) {
	var scratch [2]byte
	binary.BigEndian.PutUint16(scratch[:], v)
	wr.buf.Write(scratch[:])
}

func (wr *fieldWriter) putUint32(v uint32) {
	var scratch [4]byte
	binary.BigEndian.PutUint32(scratch[:], v)
	wr.buf.Write(scratch[:])
}

func (wr *fieldWriter) putUint64(v uint64) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], v)
	wr.buf.Write(scratch[:])
}

func (wr *fieldWriter) putBytes(data []byte) {
	wr.buf.Write(data)
}

func (wr *fieldWriter) putString(s string) {
	wr.putUint32(uint32(len(s)))
	wr.buf.WriteString(s)
}

func (wr *fieldWriter) payload() []byte {
	return wr.buf.Bytes()
}

// fieldReader consumes payload fields; every accessor fails with
// ErrIncompletePacket once the payload runs short.
type fieldReader struct {
	data []byte
	off  int
}

func (rd *fieldReader) uint8() (byte, error) {
	if rd.off+1 > len(rd.data) {
		return 0, ErrIncompletePacket
	}
	v := rd.data[rd.off]
	rd.off += 1
	return v, nil
}

func (rd *fieldReader) uint16() (uint16, error) {
	if rd.off+2 > len(rd.data) {
		return 0, ErrIncompletePacket
	}
	v := binary.BigEndian.Uint16(rd.data[rd.off : rd.off+2])
	rd.off += 2
	return v, nil
}

func (rd *fieldReader) uint32() (uint32, error) {
	if rd.off+4 > len(rd.data) {
		return 0, ErrIncompletePacket
	}
	v := binary.BigEndian.Uint32(rd.data[rd.off : rd.off+4])
	rd.off += 4
	return v, nil
}

func (rd *fieldReader) uint64() (uint64, error) {
	if rd.off+8 > len(rd.data) {
		return 0, ErrIncompletePacket
	}
	v := binary.BigEndian.Uint64(rd.data[rd.off : rd.off+8])
	rd.off += 8
	return v, nil
}

func (rd *fieldReader) bytes(n int) ([]byte, error) {
	if n < 0 || rd.off+n > len(rd.data) {
		return nil, ErrIncompletePacket
	}
	v := make([]byte, n)
	copy(v, rd.data[rd.off:rd.off+n])
	rd.off += n
	return v, nil
}

func (rd *fieldReader) string() (string, error) {
	length, err := rd.uint32()
	if err != nil {
		return "", err
	}
	raw, err := rd.bytes(int(length))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (rd *fieldReader) remaining() int {
	return len(rd.data) - rd.off
}

func (rd *fieldReader) rest() []byte {
	v := make([]byte, len(rd.data)-rd.off)
	copy(v, rd.data[rd.off:])
	rd.off = len(rd.data)
	return v
}
