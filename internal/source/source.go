// Package source turns dataset declarations from the configuration into
// served datasets.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/blobstore"
	"github.com/hupe1980/datasetter/blobstore/minio"
	"github.com/hupe1980/datasetter/blobstore/s3"
	"github.com/hupe1980/datasetter/config"
	"github.com/hupe1980/datasetter/loader"
	"github.com/hupe1980/datasetter/table"
	"github.com/hupe1980/datasetter/tabular"
	"golang.org/x/sync/errgroup"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Loaded is a dataset ready to mount.
type Loaded struct {
	URI     string
	Dataset *tabular.Dataset
}

// LoadAll loads every configured dataset concurrently. The result keeps the
// configuration order; the first error cancels the remaining loads.
func LoadAll(ctx context.Context, cfg *config.Config, logger *datasetter.Logger) ([]Loaded, error) {
	out := make([]Loaded, len(cfg.Datasets))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range cfg.Datasets {
		g.Go(func() error {
			ds, err := Open(ctx, cfg, d, logger)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", d.URI, err)
			}
			out[i] = Loaded{URI: d.URI, Dataset: ds}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Open reads the table of d and indexes its facets.
func Open(ctx context.Context, cfg *config.Config, d config.DatasetConfig, logger *datasetter.Logger) (*tabular.Dataset, error) {
	if logger == nil {
		logger = datasetter.NoopLogger()
	}
	logger = logger.WithDataset(d.URI)

	start := time.Now()
	tbl, err := Table(ctx, cfg, d)
	logger.LogLoad(ctx, describe(d.Source), rows(tbl), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return tabular.New(tbl, d.Facets, d.Metadata(), datasetter.WithLogger(logger))
}

// Table reads the raw table of d from its source.
func Table(ctx context.Context, cfg *config.Config, d config.DatasetConfig) (*table.Table, error) {
	src := d.Source
	if err := src.Validate(); err != nil {
		return nil, err
	}

	kinds, err := d.Kinds()
	if err != nil {
		return nil, err
	}
	optFns := []loader.Option{loader.WithKinds(kinds)}
	if src.Delimiter != "" {
		optFns = append(optFns, loader.WithDelimiter([]rune(src.Delimiter)[0]))
	}

	switch src.Kind() {
	case config.SourceFile:
		dir, name := filepath.Split(src.File)
		if dir == "" {
			dir = "."
		}
		return loader.Load(ctx, blobstore.NewLocalStore(dir), name, optFns...)
	case config.SourceS3:
		bucket, key, err := src.Object()
		if err != nil {
			return nil, err
		}
		store, err := s3.New(ctx, bucket,
			s3.WithRegion(cfg.S3.Region),
			s3.WithEndpoint(cfg.S3.Endpoint),
		)
		if err != nil {
			return nil, err
		}
		return loader.Load(ctx, store, key, optFns...)
	case config.SourceMinIO:
		bucket, key, err := src.Object()
		if err != nil {
			return nil, err
		}
		store, err := minio.New(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Secure, bucket, "")
		if err != nil {
			return nil, err
		}
		return loader.Load(ctx, store, key, optFns...)
	case config.SourceSQLite:
		db, err := sql.Open("sqlite", src.SQLite.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		tbl, err := loader.ReadSQL(ctx, db, src.SQLite.Query)
		if err != nil {
			return nil, err
		}
		return loader.ApplyKinds(tbl, kinds)
	case config.SourceDynamoDB:
		client, err := newDynamoDBClient(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		tbl, err := loader.ReadDynamoDB(ctx, client, src.DynamoDB.Table)
		if err != nil {
			return nil, err
		}
		return loader.ApplyKinds(tbl, kinds)
	default:
		return nil, fmt.Errorf("unsupported source %q", src.Kind())
	}
}

func newDynamoDBClient(ctx context.Context, c config.S3Config) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(c.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

func describe(s config.SourceConfig) string {
	switch s.Kind() {
	case config.SourceFile:
		return s.File
	case config.SourceSQLite:
		return "sqlite:" + s.SQLite.DSN
	case config.SourceDynamoDB:
		return "dynamodb:" + s.DynamoDB.Table
	default:
		return s.URL
	}
}

func rows(t *table.Table) int {
	if t == nil {
		return 0
	}
	return t.Len()
}
