package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  addr: ":9000"
  rate_limit: 120
log:
  level: debug
  format: json
minio:
  endpoint: localhost:9000
  access_key: minioadmin
  secret_key: minioadmin
datasets:
  - uri: letters
    name: letters
    description: A simple dataset to make tests.
    facets: [letter, greek]
    columns:
      - name: letter
        type: string
        description: A column with letters.
      - name: number
        type: integer
    source:
      file: testdata/letters.csv
  - uri: /remote/
    name: remote
    source:
      url: s3://bucket/path/letters.csv.gz
  - uri: sql
    source:
      sqlite:
        dsn: file:letters.db
        query: SELECT * FROM letters
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "datasetter.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 120, cfg.Server.RateLimit)
	assert.Equal(t, 20, cfg.Server.Burst)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Server.Metrics)
	assert.True(t, cfg.MinIO.Secure)
	assert.Equal(t, "minioadmin", cfg.MinIO.AccessKey)

	require.Len(t, cfg.Datasets, 3)
	letters := cfg.Datasets[0]
	assert.Equal(t, []string{"letter", "greek"}, letters.Facets)
	assert.Equal(t, "A simple dataset to make tests.", letters.Metadata().Description)
	assert.Equal(t, "A column with letters.", letters.Columns[0].Description)
	assert.Equal(t, SourceFile, letters.Source.Kind())

	kinds, err := letters.Kinds()
	require.NoError(t, err)
	assert.Equal(t, map[string]table.Kind{"letter": table.KindString, "number": table.KindInt}, kinds)

	assert.Equal(t, SourceS3, cfg.Datasets[1].Source.Kind())
	bucket, key, err := cfg.Datasets[1].Source.Object()
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "path/letters.csv.gz", key)

	assert.Equal(t, SourceSQLite, cfg.Datasets[2].Source.Kind())
	assert.Equal(t, "SELECT * FROM letters", cfg.Datasets[2].Source.SQLite.Query)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "datasetter.yaml", sampleYAML)

	t.Setenv("DATASETTER_SERVER_ADDR", ":7000")
	t.Setenv("DATASETTER_LOG_LEVEL", "warn")
	t.Setenv("DATASETTER_MINIO_SECURE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.MinIO.Secure)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Datasets)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := writeConfig(t, "bad.yaml", "server: [\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Addr: ":8000", Burst: 1},
			Log:    LogConfig{Level: "info", Format: "text"},
			Datasets: []DatasetConfig{
				{URI: "letters", Source: SourceConfig{File: "letters.csv"}},
			},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"EmptyAddr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"NegativeRateLimit", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"ZeroBurst", func(c *Config) { c.Server.RateLimit = 10; c.Server.Burst = 0 }, "burst"},
		{"BadLevel", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"BadFormat", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"EmptyURI", func(c *Config) { c.Datasets[0].URI = "/" }, "uri is required"},
		{"DuplicateURI", func(c *Config) {
			c.Datasets = append(c.Datasets, DatasetConfig{URI: "/letters/", Source: SourceConfig{File: "x.csv"}})
		}, "duplicate uri"},
		{"NoSource", func(c *Config) { c.Datasets[0].Source = SourceConfig{} }, "no source"},
		{"TwoSources", func(c *Config) { c.Datasets[0].Source.URL = "s3://b/k" }, "more than one"},
		{"BadScheme", func(c *Config) {
			c.Datasets[0].Source = SourceConfig{URL: "ftp://b/k"}
		}, "unsupported scheme"},
		{"URLWithoutKey", func(c *Config) {
			c.Datasets[0].Source = SourceConfig{URL: "minio://bucket"}
		}, "bucket/key"},
		{"SQLiteWithoutQuery", func(c *Config) {
			c.Datasets[0].Source = SourceConfig{SQLite: &SQLiteSource{DSN: "x.db"}}
		}, "dsn and query"},
		{"DynamoDBWithoutTable", func(c *Config) {
			c.Datasets[0].Source = SourceConfig{DynamoDB: &DynamoDBSource{}}
		}, "needs table"},
		{"LongDelimiter", func(c *Config) { c.Datasets[0].Source.Delimiter = ";;" }, "delimiter"},
		{"UnknownColumnType", func(c *Config) {
			c.Datasets[0].Columns = []datasetter.ColumnInfo{{Name: "x", Type: "blob"}}
		}, "unknown column type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	l, err := LogConfig{Level: "error", Format: "json"}.Logger()
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = LogConfig{Level: "nope"}.Logger()
	assert.Error(t, err)
}
