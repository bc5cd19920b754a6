/*
Package codec implements the protobuf wire encoding used by every model and
message persisted or signed by flow.

Types describe their layout in a Marshal/Unmarshal pair built on Encoder
and Decode. The output is regular proto3 binary: fields carrying a zero
value are omitted, unknown fields are skipped when decoding. This keeps
the encoding deterministic, which matters because the same bytes are used
to build signatures.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/flow/errors"
)

const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

// Marshaller is implemented by any type that can serialize itself.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder writes fields in the order they are added. Callers are expected to
// add fields in increasing field number order.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) tag(field int, wire uint64) {
	if e.err != nil {
		return
	}
	e.err = e.buf.EncodeVarint(uint64(field)<<3 | wire)
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, v []byte) {
	if len(v) == 0 {
		return
	}
	e.tag(field, wireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(v)
	}
}

// String writes a length delimited field. Empty values are omitted.
func (e *Encoder) String(field int, v string) {
	if v == "" {
		return
	}
	e.tag(field, wireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeStringBytes(v)
	}
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	e.tag(field, wireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
}

// Int64 writes a varint field using the two's complement representation,
// the same way protobuf encodes int64. Zero is omitted.
func (e *Encoder) Int64(field int, v int64) {
	e.Uint64(field, uint64(v))
}

// Bool writes a varint field. False is omitted.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// Message writes a nested message. Nil messages are omitted.
func (e *Encoder) Message(field int, m Marshaller) {
	if e.err != nil || m == nil || isNil(m) {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = errors.Wrapf(err, "field %d", field)
		return
	}
	e.tag(field, wireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
}

// Result returns the serialized form, or the first error encountered. A
// message with all fields at zero encodes to an empty, non nil slice, since
// stores treat a nil value as a missing key.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(e.err, "encode")
	}
	if raw := e.buf.Bytes(); raw != nil {
		return raw, nil
	}
	return []byte{}, nil
}

// Field is a single decoded field value.
type Field struct {
	Num    int
	wire   uint64
	varint uint64
	data   []byte
}

// Uint64 returns the value of a varint field.
func (f Field) Uint64() (uint64, error) {
	if f.wire != wireVarint {
		return 0, errors.Wrapf(errors.ErrType, "field %d is not a varint", f.Num)
	}
	return f.varint, nil
}

// Int64 returns the value of a varint field.
func (f Field) Int64() (int64, error) {
	v, err := f.Uint64()
	return int64(v), err
}

// Bool returns the value of a varint field.
func (f Field) Bool() (bool, error) {
	v, err := f.Uint64()
	return v != 0, err
}

// Bytes returns a copy of a length delimited field value.
func (f Field) Bytes() ([]byte, error) {
	if f.wire != wireBytes {
		return nil, errors.Wrapf(errors.ErrType, "field %d is not length delimited", f.Num)
	}
	cp := make([]byte, len(f.data))
	copy(cp, f.data)
	return cp, nil
}

// String returns the value of a length delimited field.
func (f Field) String() (string, error) {
	if f.wire != wireBytes {
		return "", errors.Wrapf(errors.ErrType, "field %d is not length delimited", f.Num)
	}
	return string(f.data), nil
}

// Message decodes a nested message into dest.
func (f Field) Message(dest interface{ Unmarshal([]byte) error }) error {
	if f.wire != wireBytes {
		return errors.Wrapf(errors.ErrType, "field %d is not length delimited", f.Num)
	}
	return dest.Unmarshal(f.data)
}

// Decode walks all fields found in raw and calls fn for each of them. Fields
// unknown to fn should be ignored by returning nil.
func Decode(raw []byte, fn func(Field) error) error {
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "malformed tag")
		}
		raw = raw[n:]

		f := Field{Num: int(tag >> 3), wire: tag & 7}
		if f.Num <= 0 {
			return errors.Wrapf(errors.ErrInput, "illegal field number %d", f.Num)
		}

		switch f.wire {
		case wireVarint:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrapf(errors.ErrInput, "malformed varint in field %d", f.Num)
			}
			f.varint = v
			raw = raw[n:]
		case wireBytes:
			size, n := proto.DecodeVarint(raw)
			if n == 0 || uint64(len(raw)-n) < size {
				return errors.Wrapf(errors.ErrInput, "malformed length in field %d", f.Num)
			}
			f.data = raw[n : n+int(size)]
			raw = raw[n+int(size):]
		case wireFixed64:
			if len(raw) < 8 {
				return errors.Wrapf(errors.ErrInput, "truncated field %d", f.Num)
			}
			f.data = raw[:8]
			raw = raw[8:]
		case wireFixed32:
			if len(raw) < 4 {
				return errors.Wrapf(errors.ErrInput, "truncated field %d", f.Num)
			}
			f.data = raw[:4]
			raw = raw[4:]
		default:
			return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", f.wire)
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
