// Package codec provides canonical DER serialization for key/value records.
//
// A record pairs a signed 64-bit key with an arbitrary byte payload. It is
// encoded as the ASN.1 structure
//
//	KeyValue ::= SEQUENCE {
//	    key   INTEGER,
//	    value OCTET STRING
//	}
//
// using the Distinguished Encoding Rules, so every record has exactly one
// valid encoding.
//
// # Wire Format
//
//	0x30 <len> 0x02 <len> <key bytes> 0x04 <len> <value bytes>
//
// Fields:
//   - Tags: 0x30 SEQUENCE, 0x02 INTEGER, 0x04 OCTET STRING
//   - Lengths: a single byte for lengths below 128, otherwise 0x80|n followed
//     by n big-endian length bytes, with n as small as possible
//   - Key: the shortest two's-complement big-endian form of the key
//   - Value: the payload bytes, verbatim
//
// A record with key 5 and value "hi" encodes as
//
//	30 07 02 01 05 04 02 68 69
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.Encode(codec.NewRecord(42, []byte("value")))
//	if err != nil {
//	    return err
//	}
//
//	record, err := c.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decoding is strict. Non-canonical lengths or integers, unexpected tags,
// truncated input and lengths that overrun the buffer fail with
// ErrMalformedEncoding. Integers wider than 64 bits fail with
// ErrIntegerOverflow and bytes after the record with ErrTrailingData. Decode
// errors are *DecodeError values carrying the byte offset; match the kind with
// errors.Is. Encoding a record without a key fails with ErrMissingField.
//
// # Streams
//
// RecordWriter and RecordReader frame consecutive records on an io.Writer or
// io.Reader. The DER length prefix is the only framing; no extra bytes are
// added between records.
//
// # Thread Safety
//
// RecordCodec and InstrumentedCodec are safe for concurrent use. Records are
// not mutated by the codec. RecordReader and RecordWriter are not safe for
// concurrent use.
package codec
