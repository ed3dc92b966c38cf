// Package loader decodes tables from blobs, readers, SQL queries and DynamoDB
// scans.
//
// # Formats
//
// Load picks the decoder from the blob name:
//
//	letters.csv          CSV with a header row
//	letters.jsonl        one JSON object per line (also .ndjson)
//	letters.csv.gz       gzip (klauspost/compress)
//	letters.jsonl.zst    zstd (klauspost/compress)
//	letters.csv.lz4      lz4 frames (pierrec/lz4)
//
// CSV cells are typed per column: every non-null cell of a column must parse as
// the inferred kind, otherwise the column stays a string column. JSON values keep
// their JSON type; nested objects and arrays are stored as their JSON text.
//
// # Example
//
//	store := blobstore.NewLocalStore("/data")
//	tbl, err := loader.Load(ctx, store, "letters.csv.gz")
//	if err != nil {
//	    return err
//	}
//	ds, err := tabular.New(tbl, []string{"letter", "greek"}, meta)
package loader
