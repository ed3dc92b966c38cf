package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/hupe1980/datasetter/table"
)

// ReadJSONLines decodes a stream of JSON objects, one per line.
//
// The columns are the union of all keys in first-seen order; rows without a
// key hold Null in that column.
func ReadJSONLines(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	b := table.NewBuilder()
	for line := 1; ; line++ {
		keys, vals, err := decodeObject(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl: object %d: %w", line, err)
		}

		rec := make(map[string]any, len(keys))
		for i, k := range keys {
			b.AddColumn(k)
			rec[k] = vals[i]
		}
		if err := b.AppendRecord(rec); err != nil {
			return nil, fmt.Errorf("jsonl: %w", err)
		}
	}

	return b.Build()
}

// decodeObject reads one top-level object keeping its key order. Nested
// values are flattened by scalar.
func decodeObject(dec *json.Decoder) ([]string, []any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var (
		keys []string
		vals []any
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		v, err := scalar(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, vals, nil
}

// scalar maps composite values to their JSON text so every cell fits a
// table.Value.
func scalar(v any) (any, error) {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	default:
		return v, nil
	}
}
