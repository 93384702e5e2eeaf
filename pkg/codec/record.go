package codec

import (
	"bytes"
	"fmt"
)

// Record is a key/value pair as carried on the wire.
//
// Key is a pointer so that a partially built record can exist without a key;
// encoding such a record fails with ErrMissingField.
type Record struct {
	Key   *int64 // Required at encode time
	Value []byte // Raw payload, may be empty
}

// Codec encodes and decodes records.
type Codec interface {
	Encode(r *Record) ([]byte, error)
	Decode(data []byte) (*Record, error)
}

// RecordCodec is the DER implementation of Codec. It holds no state.
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes a record as SEQUENCE { INTEGER key, OCTET STRING value }.
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	size, err := c.EncodedLen(r)
	if err != nil {
		return nil, err
	}
	return appendRecord(make([]byte, 0, size), r), nil
}

// AppendEncode appends the encoding of r to dst and returns the extended
// buffer. dst is left untouched on error.
func (c *RecordCodec) AppendEncode(dst []byte, r *Record) ([]byte, error) {
	size, err := c.EncodedLen(r)
	if err != nil {
		return dst, err
	}
	if free := cap(dst) - len(dst); free < size {
		grown := make([]byte, len(dst), len(dst)+size)
		copy(grown, dst)
		dst = grown
	}
	return appendRecord(dst, r), nil
}

// EncodedLen returns the number of bytes Encode would produce for r.
func (c *RecordCodec) EncodedLen(r *Record) (int, error) {
	if r == nil || r.Key == nil {
		return 0, fmt.Errorf("encode record key: %w", ErrMissingField)
	}
	return elementSize(sequenceLen(r)), nil
}

// Decode parses exactly one canonical record from data. Any bytes left after
// the outer SEQUENCE are rejected with ErrTrailingData.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	content, rest, err := readElement(data, 0, tagSequence, "SEQUENCE")
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &DecodeError{
			Offset: int64(len(data) - len(rest)),
			Err:    ErrTrailingData,
			Detail: fmt.Sprintf("%d bytes after SEQUENCE", len(rest)),
		}
	}
	return decodeFields(content, len(data)-len(content))
}

func sequenceLen(r *Record) int {
	return elementSize(int64Size(*r.Key)) + elementSize(len(r.Value))
}

func appendRecord(dst []byte, r *Record) []byte {
	key := *r.Key
	dst = appendHeader(dst, tagSequence, sequenceLen(r))
	dst = appendHeader(dst, tagInteger, int64Size(key))
	dst = appendInt64(dst, key)
	dst = appendHeader(dst, tagOctetString, len(r.Value))
	return append(dst, r.Value...)
}

// decodeFields parses the SEQUENCE content. base is the offset of content
// within the original input.
func decodeFields(content []byte, base int) (*Record, error) {
	keyContent, rest, err := readElement(content, base, tagInteger, "INTEGER")
	if err != nil {
		return nil, err
	}
	key, err := parseInt64(keyContent, base+len(content)-len(rest)-len(keyContent))
	if err != nil {
		return nil, err
	}

	valueOffset := base + len(content) - len(rest)
	value, tail, err := readElement(rest, valueOffset, tagOctetString, "OCTET STRING")
	if err != nil {
		return nil, err
	}
	if len(tail) > 0 {
		return nil, malformed(base+len(content)-len(tail), "unexpected element after OCTET STRING")
	}

	return &Record{Key: &key, Value: cloneBytes(value)}, nil
}

// NewRecord creates a complete record. The value is copied.
func NewRecord(key int64, value []byte) *Record {
	return &Record{Key: &key, Value: cloneBytes(value)}
}

// KeyValue returns the key and whether it is set.
func (r *Record) KeyValue() (int64, bool) {
	if r == nil || r.Key == nil {
		return 0, false
	}
	return *r.Key, true
}

// Equal reports whether both records have the same key and the same value
// bytes. A nil and an empty value are equal.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	k1, ok1 := r.KeyValue()
	k2, ok2 := other.KeyValue()
	if ok1 != ok2 || k1 != k2 {
		return false
	}
	return bytes.Equal(r.Value, other.Value)
}

func (r *Record) String() string {
	if r == nil {
		return "Record(nil)"
	}
	if k, ok := r.KeyValue(); ok {
		return fmt.Sprintf("Record{key=%d, value=%d bytes}", k, len(r.Value))
	}
	return fmt.Sprintf("Record{key=<nil>, value=%d bytes}", len(r.Value))
}

func cloneBytes(b []byte) []byte {
	return append(make([]byte, 0, len(b)), b...)
}
