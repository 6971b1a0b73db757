package db

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// EncodeJSON serializes record fields as a JSON object (dates as RFC3339 strings).
func EncodeJSON(rec record.Record) ([]byte, error) {
	data, err := json.Marshal(rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", rec.ID(), err)
	}
	return data, nil
}

// DecodeJSON rebuilds a record from EncodeJSON output, typing values by sch.
// Keys no longer in the schema are dropped.
func DecodeJSON(sch schema.Schema, id string, data []byte) (record.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return record.Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}

	fields := make(map[string]value.Value, len(raw))
	for k, v := range raw {
		f, ok := sch.Lookup(k)
		if !ok {
			continue
		}
		val, err := value.FromAny(v)
		if err != nil {
			return record.Record{}, fmt.Errorf("decode record %s field %s: %w", id, k, err)
		}
		val, err = value.Coerce(val, f)
		if err != nil {
			return record.Record{}, fmt.Errorf("decode record %s: %w", id, err)
		}
		fields[k] = val
	}
	return record.Reconstruct(id, fields), nil
}

// EncodeHash flattens record fields into string pairs for hash storage.
func EncodeHash(rec record.Record) map[string]string {
	out := make(map[string]string, len(rec.Fields()))
	for k, v := range rec.Fields() {
		out[k] = v.Encode()
	}
	return out
}

// DecodeHash rebuilds a record from EncodeHash output, typing values by sch.
func DecodeHash(sch schema.Schema, id string, m map[string]string) (record.Record, error) {
	fields := make(map[string]value.Value, len(m))
	for k, s := range m {
		f, ok := sch.Lookup(k)
		if !ok {
			continue
		}
		v, err := value.Decode(s, f)
		if err != nil {
			return record.Record{}, fmt.Errorf("decode record %s: %w", id, err)
		}
		fields[k] = v
	}
	return record.Reconstruct(id, fields), nil
}
