package protocol

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
)

// ErrProtocol marks a decode failure that must be treated as a fatal
// protocol fault by the dispatcher (spec.md §4.1: "invalid values are a
// protocol fault").
type ErrProtocol struct {
	msg string
}

func (e *ErrProtocol) Error() string { return e.msg }

func protoErrorf(format string, args ...any) error {
	return &ErrProtocol{msg: fmt.Sprintf(format, args...)}
}

// encoder appends fixed-width, big-endian fields to an in-memory buffer.
// Every message body has a statically known size, so callers preallocate
// with newEncoder(n) and the encoder never grows the slice.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{buf: make([]byte, 0, size)}
}

func (e *encoder) bytes() []byte { return e.buf }

func (e *encoder) putUint8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) putBool(v bool) {
	if v {
		e.putUint8(1)
	} else {
		e.putUint8(0)
	}
}
func (e *encoder) putUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
func (e *encoder) putUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
func (e *encoder) putUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// putFixedString writes s as UTF-8, null-padded/truncated to exactly size
// bytes. Callers validate length ahead of time (message_parameter_validator
// equivalents); this never errors, it only ever truncates defensively.
func (e *encoder) putFixedString(s string, size int) {
	b := make([]byte, size)
	n := copy(b, s)
	_ = n
	e.buf = append(e.buf, b...)
}

// putFixedBytes writes raw bytes (e.g. an ASCII password), null-padded or
// truncated to exactly size bytes.
func (e *encoder) putFixedBytes(data []byte, size int) {
	b := make([]byte, size)
	copy(b, data)
	e.buf = append(e.buf, b...)
}

func (e *encoder) putEndpoint(ep netaddr.Endpoint) {
	e.buf = append(e.buf, ep.Address[:]...)
	e.putUint16(ep.Port)
}

// decoder reads fixed-width big-endian fields from a byte slice of known
// length, failing with *ErrProtocol on any malformed value (invalid enum,
// non-UTF-8 string).
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(buf []byte) *decoder {
	return &decoder{buf: buf}
}

func (d *decoder) need(n int) error {
	if len(d.buf)-d.pos < n {
		return protoErrorf("protocol: buffer too short: need %d bytes, have %d", n, len(d.buf)-d.pos)
	}
	return nil
}

func (d *decoder) getUint8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) getBool() (bool, error) {
	v, err := d.getUint8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, protoErrorf("protocol: invalid bool value 0x%02x", v)
	}
}

func (d *decoder) getUint16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.buf[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) getUint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) getUint64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

// getFixedString reads size bytes, trims the trailing null padding and
// validates the remainder as UTF-8.
func (d *decoder) getFixedString(size int) (string, error) {
	if err := d.need(size); err != nil {
		return "", err
	}
	raw := d.buf[d.pos : d.pos+size]
	d.pos += size
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	s := raw[:n]
	if !utf8.Valid(s) {
		return "", protoErrorf("protocol: field is not valid UTF-8")
	}
	return string(s), nil
}

func (d *decoder) getFixedBytes(size int) ([]byte, error) {
	if err := d.need(size); err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	copy(raw, d.buf[d.pos:d.pos+size])
	d.pos += size
	return raw, nil
}

func (d *decoder) getEndpoint() (netaddr.Endpoint, error) {
	addrBytes, err := d.getFixedBytes(16)
	if err != nil {
		return netaddr.Endpoint{}, err
	}
	port, err := d.getUint16()
	if err != nil {
		return netaddr.Endpoint{}, err
	}
	var ep netaddr.Endpoint
	copy(ep.Address[:], addrBytes)
	ep.Port = port
	return ep, nil
}
