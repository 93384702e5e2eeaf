package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// RecordWriter appends encoded records to a stream.
type RecordWriter struct {
	w       io.Writer
	codec   *RecordCodec
	scratch []byte
	offset  int64 // Current write offset
}

// NewRecordWriter creates a writer that encodes records onto w. Each record
// is handed to w in a single Write call; nothing is held back between calls.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{
		w:     w,
		codec: NewRecordCodec(),
	}
}

// Write encodes r onto the stream and returns the offset the record starts at.
func (w *RecordWriter) Write(r *Record) (int64, error) {
	data, err := w.codec.AppendEncode(w.scratch[:0], r)
	if err != nil {
		return 0, err
	}
	w.scratch = data

	recordOffset := w.offset
	n, err := w.w.Write(data)
	w.offset += int64(n)
	if err != nil {
		return recordOffset, fmt.Errorf("write record at offset %d: %w", recordOffset, err)
	}
	return recordOffset, nil
}

// Offset returns the number of bytes written so far.
func (w *RecordWriter) Offset() int64 {
	return w.offset
}

// RecordReaderConfig holds optional settings for a RecordReader.
type RecordReaderConfig struct {
	// MaxRecordSize rejects records whose declared SEQUENCE content is larger
	// than this many bytes. Zero disables the check.
	MaxRecordSize int

	// Codec decodes each framed record. Nil uses a RecordCodec.
	Codec Codec
}

// readChunk caps the buffer reserved up front for a record's content; larger
// records grow as their bytes actually arrive.
const readChunk = 64 << 10

// RecordReader reads consecutive records from a stream.
type RecordReader struct {
	r      io.Reader
	config RecordReaderConfig
	offset int64
	header [2 + maxLengthBytes]byte
}

// NewRecordReader creates a reader over r.
func NewRecordReader(r io.Reader, config RecordReaderConfig) *RecordReader {
	if config.Codec == nil {
		config.Codec = NewRecordCodec()
	}
	return &RecordReader{
		r:      r,
		config: config,
	}
}

// ReadNext reads exactly one record. It returns io.EOF when the stream ends on
// a record boundary; a stream that ends inside a record is malformed. Decode
// error offsets are relative to the start of the stream.
func (r *RecordReader) ReadNext() (*Record, error) {
	start := r.offset

	raw, complete, err := r.readFrame(start)
	if err != nil {
		return nil, err
	}

	// Incomplete frames are handed to the codec too, so that framing failures
	// are reported with the same kinds and details as Decode.
	record, err := r.config.Codec.Decode(raw)
	if err != nil {
		return nil, shiftOffset(err, start)
	}
	if !complete {
		return nil, &DecodeError{Offset: start, Err: ErrMalformedEncoding, Detail: "stream ends inside record"}
	}
	return record, nil
}

// Offset returns the stream offset of the next record.
func (r *RecordReader) Offset() int64 {
	return r.offset
}

// readFrame reads the tag, length prefix and content of one element. When the
// stream ends early or the header is invalid it stops and returns the bytes
// read so far with complete set to false.
func (r *RecordReader) readFrame(start int64) ([]byte, bool, error) {
	header := r.header[:2]
	n, err := io.ReadFull(r.r, header)
	r.offset += int64(n)
	switch {
	case n == 0 && errors.Is(err, io.EOF):
		return nil, false, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return cloneBytes(header[:n]), false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read record header at offset %d: %w", start, err)
	}
	if header[0] != tagSequence {
		return cloneBytes(header), false, nil
	}

	// Long-form lengths carry up to maxLengthBytes more bytes; invalid counts
	// are reported by the codec.
	if count := int(header[1] & 0x7f); header[1] >= 0x80 && count >= 1 && count <= maxLengthBytes {
		header = r.header[:2+count]
		n, err = io.ReadFull(r.r, header[2:])
		r.offset += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return cloneBytes(header[:2+n]), false, nil
			}
			return nil, false, fmt.Errorf("read length field at offset %d: %w", start, err)
		}
	}

	length, _, err := parseLength(header[1:], 1)
	if err != nil {
		return cloneBytes(header), false, nil
	}
	if r.config.MaxRecordSize > 0 && length > r.config.MaxRecordSize {
		return nil, false, &DecodeError{
			Offset: start,
			Err:    ErrMalformedEncoding,
			Detail: fmt.Sprintf("record length %d exceeds limit %d", length, r.config.MaxRecordSize),
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + min(length, readChunk))
	buf.Write(header)
	copied, err := io.CopyN(&buf, r.r, int64(length))
	r.offset += copied
	if err != nil {
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), false, nil
		}
		return nil, false, fmt.Errorf("read record content at offset %d: %w", start, err)
	}
	return buf.Bytes(), true, nil
}

// shiftOffset rebases a decode error from record-relative to stream offsets.
func shiftOffset(err error, start int64) error {
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		return err
	}
	return &DecodeError{Offset: start + decodeErr.Offset, Err: decodeErr.Err, Detail: decodeErr.Detail}
}
