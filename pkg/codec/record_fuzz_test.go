//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzRecordCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	// Add seed corpus
	f.Add(int64(0), []byte(""))
	f.Add(int64(-1), []byte("value"))
	f.Add(int64(128), []byte("john@example.com"))
	f.Add(int64(-9223372036854775808), []byte{0x00, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, key int64, value []byte) {
		if len(value) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		original := NewRecord(key, value)
		encoded, err := codec.Encode(original)
		if err != nil {
			t.Fatalf("Encode failed for key=%d value=%q: %v", key, value, err)
		}

		record, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed for key=%d len(value)=%d: %v", key, len(value), err)
		}

		if !record.Equal(original) {
			t.Errorf("Round trip mismatch: got %v, want %v", record, original)
		}

		reencoded, err := codec.Encode(record)
		if err != nil {
			t.Fatalf("Re-encode failed: %v", err)
		}
		if !bytes.Equal(reencoded, encoded) {
			t.Errorf("Re-encoding changed bytes: %x != %x", reencoded, encoded)
		}
	})
}

// FuzzRecordCodec_CanonicalInput checks that anything Decode accepts
// re-encodes to exactly the same bytes.
func FuzzRecordCodec_CanonicalInput(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte{})
	f.Add([]byte{0x30, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00})
	f.Add([]byte{0x30, 0x06, 0x02, 0x02, 0x00, 0x80, 0x04, 0x00})
	f.Add([]byte{0x30, 0x81, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00})
	f.Add([]byte{0x30, 0x06, 0x02, 0x02, 0x00, 0x05, 0x04, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		record, err := codec.Decode(data)
		if err != nil {
			if record != nil {
				t.Fatalf("Decode returned a record alongside error %v", err)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode returned untyped error %v", err)
			}
			return
		}

		encoded, err := codec.Encode(record)
		if err != nil {
			t.Fatalf("Encode of decoded record failed: %v", err)
		}
		if !bytes.Equal(encoded, data) {
			t.Errorf("Accepted non-canonical input %x, canonical form is %x", data, encoded)
		}
	})
}

// FuzzRecordReader_Stream tests that the stream reader never panics and
// agrees with Decode on single records.
func FuzzRecordReader_Stream(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte{0x30, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00})
	f.Add([]byte{0x30, 0x82, 0x01})
	f.Add([]byte{0x30})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		reader := NewRecordReader(bytes.NewReader(data), RecordReaderConfig{MaxRecordSize: 1 << 20})
		streamed, streamErr := reader.ReadNext()
		decoded, decodeErr := codec.Decode(data)

		if decodeErr == nil {
			if streamErr != nil {
				t.Fatalf("Decode accepted %x but stream reader failed: %v", data, streamErr)
			}
			if !streamed.Equal(decoded) {
				t.Errorf("Stream reader and Decode disagree: %v != %v", streamed, decoded)
			}
		}
	})
}
