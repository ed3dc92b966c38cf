package loader

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/hupe1980/datasetter/blobstore"
	"github.com/hupe1980/datasetter/table"
)

// Supported table formats.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Format returns the table format of name, ignoring a compression suffix.
func Format(name string) (string, error) {
	for _, ext := range []string{extGzip, extZstd, extLZ4} {
		name = strings.TrimSuffix(name, ext)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".tsv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported table format %q", name)
	}
}

// Load reads the named blob from store and decodes it by its extension.
// TSV files use a tab delimiter unless an option overrides it. Kinds pinned
// with WithKinds apply to every format.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*table.Table, error) {
	format, err := Format(name)
	if err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	rc, inner, err := Decompress(name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	defer rc.Close()

	var tbl *table.Table
	switch format {
	case FormatCSV:
		if strings.EqualFold(path.Ext(inner), ".tsv") {
			optFns = append([]Option{WithDelimiter('\t')}, optFns...)
		}
		tbl, err = ReadCSV(rc, optFns...)
	case FormatJSONL:
		tbl, err = ReadJSONLines(rc)
		if err == nil {
			tbl, err = ApplyKinds(tbl, applyOptions(optFns).kinds)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return tbl, nil
}
