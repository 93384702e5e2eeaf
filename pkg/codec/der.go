package codec

import (
	"fmt"
	"math"
)

// Universal class tags used by the record layout. Only primitive INTEGER and
// OCTET STRING are accepted; constructed forms are rejected by tag mismatch.
const (
	tagInteger     byte = 0x02
	tagOctetString byte = 0x04
	tagSequence    byte = 0x30
)

// maxLengthBytes bounds long-form length fields so a length always fits an int.
const maxLengthBytes = 8

// lengthSize returns the number of bytes needed to encode n as a DER length.
func lengthSize(n int) int {
	if n < 0x80 {
		return 1
	}
	size := 1
	for ; n > 0; n >>= 8 {
		size++
	}
	return size
}

// appendLength appends n in short form when it fits in seven bits, otherwise
// in minimal long form.
func appendLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	count := lengthSize(n) - 1
	dst = append(dst, 0x80|byte(count))
	for i := count - 1; i >= 0; i-- {
		dst = append(dst, byte(n>>(uint(i)*8)))
	}
	return dst
}

func appendHeader(dst []byte, tag byte, contentLen int) []byte {
	return appendLength(append(dst, tag), contentLen)
}

// elementSize is the framed size of an element with contentLen content bytes.
func elementSize(contentLen int) int {
	return 1 + lengthSize(contentLen) + contentLen
}

// int64Size returns the length of the minimal two's-complement form of v.
func int64Size(v int64) int {
	n := 1
	for v > 127 || v < -128 {
		n++
		v >>= 8
	}
	return n
}

func appendInt64(dst []byte, v int64) []byte {
	for i := int64Size(v) - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

// parseLength reads a length prefix from the start of b. It returns the
// declared length and the number of prefix bytes consumed. offset is the
// position of b within the whole input and is only used for error reporting.
func parseLength(b []byte, offset int) (int, int, error) {
	if len(b) == 0 {
		return 0, 0, malformed(offset, "missing length")
	}
	first := b[0]
	if first < 0x80 {
		return int(first), 1, nil
	}

	count := int(first & 0x7f)
	switch {
	case count == 0:
		return 0, 0, malformed(offset, "indefinite length is not allowed")
	case first == 0xff:
		return 0, 0, malformed(offset, "reserved length byte 0xff")
	case count > maxLengthBytes:
		return 0, 0, malformed(offset, "length field of %d bytes is too large", count)
	case count > len(b)-1:
		return 0, 0, malformed(offset, "length field of %d bytes overruns %d available bytes", count, len(b)-1)
	}
	if b[1] == 0 {
		return 0, 0, malformed(offset, "length has a leading zero byte")
	}

	var n uint64
	for _, c := range b[1 : 1+count] {
		n = n<<8 | uint64(c)
	}
	if n < 0x80 {
		return 0, 0, malformed(offset, "length %d must use short form", n)
	}
	if n > math.MaxInt {
		return 0, 0, malformed(offset, "length %d is out of range", n)
	}
	return int(n), 1 + count, nil
}

// parseInt64 interprets content as a minimal two's-complement integer.
func parseInt64(content []byte, offset int) (int64, error) {
	if len(content) == 0 {
		return 0, malformed(offset, "empty INTEGER")
	}
	if len(content) > 1 &&
		((content[0] == 0x00 && content[1]&0x80 == 0) ||
			(content[0] == 0xff && content[1]&0x80 != 0)) {
		return 0, malformed(offset, "INTEGER has a redundant leading sign byte")
	}
	if len(content) > 8 {
		return 0, &DecodeError{
			Offset: int64(offset),
			Err:    ErrIntegerOverflow,
			Detail: fmt.Sprintf("INTEGER of %d bytes does not fit in 64 bits", len(content)),
		}
	}

	var v int64
	for _, c := range content {
		v = v<<8 | int64(c)
	}
	shift := uint(64 - 8*len(content))
	return v << shift >> shift, nil
}

// readElement reads one element with the expected tag from the start of data
// and returns its content and whatever follows it.
func readElement(data []byte, offset int, tag byte, name string) ([]byte, []byte, error) {
	if len(data) == 0 {
		return nil, nil, malformed(offset, "missing %s", name)
	}
	if data[0] != tag {
		return nil, nil, malformed(offset, "expected %s tag 0x%02x, got 0x%02x", name, tag, data[0])
	}
	n, hdr, err := parseLength(data[1:], offset+1)
	if err != nil {
		return nil, nil, err
	}
	start := 1 + hdr
	if n > len(data)-start {
		return nil, nil, malformed(offset, "%s length %d exceeds %d available bytes", name, n, len(data)-start)
	}
	return data[start : start+n], data[start+n:], nil
}
