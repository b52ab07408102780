package trace

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes trace records for machine consumption.
type Codec interface {
	// Name identifies the codec in configuration ("json", "msgpack").
	Name() string

	// Encode converts a record to bytes.
	Encode(rec Record) ([]byte, error)

	// Decode converts bytes produced by Encode back to a record.
	Decode(data []byte) (Record, error)
}

// JSONCodec implements Codec using JSON encoding.
type JSONCodec struct{}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// Encode serializes the record to JSON bytes.
func (JSONCodec) Encode(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// Decode deserializes JSON bytes to a record.
func (JSONCodec) Decode(data []byte) (Record, error) {
	var rec Record
	err := json.Unmarshal(data, &rec)
	return rec, err
}

// MsgpackCodec implements Codec using MessagePack. Records are smaller than
// JSON and cheap to stream to a collector.
type MsgpackCodec struct{}

// Name returns "msgpack".
func (MsgpackCodec) Name() string { return "msgpack" }

// Encode serializes the record to MessagePack bytes.
func (MsgpackCodec) Encode(rec Record) ([]byte, error) {
	return msgpack.Marshal(&rec)
}

// Decode deserializes MessagePack bytes to a record.
func (MsgpackCodec) Decode(data []byte) (Record, error) {
	var rec Record
	err := msgpack.Unmarshal(data, &rec)
	return rec, err
}

// CodecFor returns the codec registered under name, or nil for the text
// format and unknown names.
func CodecFor(name string) Codec {
	switch name {
	case "json":
		return JSONCodec{}
	case "msgpack":
		return MsgpackCodec{}
	default:
		return nil
	}
}
