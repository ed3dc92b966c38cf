package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/datasetter/table"
)

// Source kinds.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourceMinIO    = "minio"
	SourceSQLite   = "sqlite"
	SourceDynamoDB = "dynamodb"
)

// SourceConfig names where a dataset's table is read from. Exactly one of
// File, URL, SQLite and DynamoDB must be set.
type SourceConfig struct {
	// File is a local path.
	File string `mapstructure:"file"`
	// URL is s3://bucket/key or minio://bucket/key.
	URL      string          `mapstructure:"url"`
	SQLite   *SQLiteSource   `mapstructure:"sqlite"`
	DynamoDB *DynamoDBSource `mapstructure:"dynamodb"`
	// Delimiter overrides the CSV delimiter of file and object sources.
	Delimiter string `mapstructure:"delimiter"`
}

// SQLiteSource reads a table from a SQL query.
type SQLiteSource struct {
	DSN   string `mapstructure:"dsn"`
	Query string `mapstructure:"query"`
}

// DynamoDBSource reads a table from a full DynamoDB scan.
type DynamoDBSource struct {
	Table string `mapstructure:"table"`
}

// Kind returns the source kind, or "" if no source is set.
func (s SourceConfig) Kind() string {
	switch {
	case s.File != "":
		return SourceFile
	case s.URL != "":
		scheme, _, _ := strings.Cut(s.URL, "://")
		return strings.ToLower(scheme)
	case s.SQLite != nil:
		return SourceSQLite
	case s.DynamoDB != nil:
		return SourceDynamoDB
	default:
		return ""
	}
}

// Object splits URL into bucket and key.
func (s SourceConfig) Object() (bucket, key string, err error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", "", fmt.Errorf("source.url: %w", err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("source.url %q: want <scheme>://bucket/key", s.URL)
	}
	return u.Host, key, nil
}

// Validate checks that exactly one well-formed source is set.
func (s SourceConfig) Validate() error {
	n := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.SQLite != nil, s.DynamoDB != nil} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New("no source configured")
	case n > 1:
		return errors.New("more than one source configured")
	}

	if len([]rune(s.Delimiter)) > 1 {
		return fmt.Errorf("source.delimiter must be a single character, got %q", s.Delimiter)
	}

	switch s.Kind() {
	case SourceFile:
		return nil
	case SourceS3, SourceMinIO:
		_, _, err := s.Object()
		return err
	case SourceSQLite:
		if s.SQLite.DSN == "" || s.SQLite.Query == "" {
			return errors.New("source.sqlite needs dsn and query")
		}
		return nil
	case SourceDynamoDB:
		if s.DynamoDB.Table == "" {
			return errors.New("source.dynamodb needs table")
		}
		return nil
	default:
		return fmt.Errorf("source.url %q: unsupported scheme", s.URL)
	}
}

// Kinds returns the declared column kinds. Loaders pin these types for every
// source: CSV cells are parsed as them, other sources are converted after
// decoding.
func (d DatasetConfig) Kinds() (map[string]table.Kind, error) {
	kinds := make(map[string]table.Kind)
	for _, col := range d.Columns {
		if col.Type == "" {
			continue
		}
		k, err := parseKind(col.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		kinds[col.Name] = k
	}
	return kinds, nil
}

func parseKind(name string) (table.Kind, error) {
	k, ok := table.ParseKind(name)
	if !ok {
		return table.KindNull, fmt.Errorf("unknown column type %q", name)
	}
	return k, nil
}
