package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/blobstore"
	"github.com/hupe1980/datasetter/internal/source"
	"github.com/hupe1980/datasetter/loader"
	"github.com/hupe1980/datasetter/server"
	"github.com/hupe1980/datasetter/table"
	"github.com/hupe1980/datasetter/tabular"
	"github.com/spf13/cobra"
)

// queryFlags select the dataset of a one-off query and its filters.
type queryFlags struct {
	file    string
	dataset string
	facets  []string
	filters []string
	rows    int
	skip    int
}

func (q *queryFlags) register(cmd *cobra.Command, paged bool) {
	f := cmd.Flags()
	f.StringVarP(&q.file, "file", "f", "", "table file (.csv, .tsv, .jsonl, .ndjson, optionally .gz/.zst/.lz4)")
	f.StringVarP(&q.dataset, "dataset", "d", "", "uri of a dataset from the config file")
	f.StringSliceVar(&q.facets, "facet", nil, "facet column (repeatable, default all columns)")
	f.StringArrayVar(&q.filters, "filter", nil, "filter as facet=value (repeatable)")
	if paged {
		f.IntVar(&q.rows, "rows", datasetter.DefaultRows, "page size")
		f.IntVar(&q.skip, "skip", 0, "entries to skip")
	}
	cmd.MarkFlagsOneRequired("file", "dataset")
	cmd.MarkFlagsMutuallyExclusive("file", "dataset")
}

func (q *queryFlags) page() datasetter.Page {
	return datasetter.Page{Rows: q.rows, Skip: q.skip}
}

// open loads the selected dataset.
func (q *queryFlags) open(cmd *cobra.Command, flags *rootFlags) (*tabular.Dataset, error) {
	if q.dataset != "" {
		cfg, logger, err := flags.load()
		if err != nil {
			return nil, err
		}
		for _, d := range cfg.Datasets {
			if strings.Trim(d.URI, "/") == strings.Trim(q.dataset, "/") {
				return source.Open(cmd.Context(), cfg, d, logger)
			}
		}
		return nil, fmt.Errorf("no dataset %q in config", q.dataset)
	}

	dir, name := filepath.Split(q.file)
	if dir == "" {
		dir = "."
	}
	tbl, err := loader.Load(cmd.Context(), blobstore.NewLocalStore(dir), name)
	if err != nil {
		return nil, err
	}

	facets := q.facets
	if len(facets) == 0 {
		facets = tbl.Columns()
	}
	meta := datasetter.Metadata{
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Columns: columnInfo(tbl.Schema()),
		Facets:  facets,
	}
	return tabular.New(tbl, facets, meta)
}

// parseFilters turns facet=value pairs into typed filters.
func (q *queryFlags) parseFilters(schema table.Schema) (datasetter.Filters, error) {
	filters := datasetter.Filters{}
	for _, kv := range q.filters {
		key, text, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, want facet=value", kv)
		}
		v, err := schema.Coerce(key, text)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", key, err)
		}
		filters[key] = v
	}
	return filters, nil
}

func columnInfo(schema table.Schema) []datasetter.ColumnInfo {
	out := make([]datasetter.ColumnInfo, len(schema))
	for i, c := range schema {
		out[i] = datasetter.ColumnInfo{Name: c.Name, Type: c.Kind.String()}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMetadataCmd(flags *rootFlags) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print the metadata document of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := q.open(cmd, flags)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ds.Metadata())
		},
	}
	q.register(cmd, false)
	return cmd
}

func newCountCmd(flags *rootFlags) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the rows matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := q.open(cmd, flags)
			if err != nil {
				return err
			}
			filters, err := q.parseFilters(ds.Schema())
			if err != nil {
				return err
			}
			n, err := ds.Count(filters)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), server.CountResponse{Count: n, Filters: filters})
		},
	}
	q.register(cmd, false)
	return cmd
}

func newCountByCmd(flags *rootFlags) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "count-by <facet>",
		Short: "Print the histogram of a facet among the matching rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := q.open(cmd, flags)
			if err != nil {
				return err
			}
			filters, err := q.parseFilters(ds.Schema())
			if err != nil {
				return err
			}

			facet := args[0]
			hist, err := ds.CountBy(facet, q.page(), filters)
			if err != nil {
				if errors.Is(err, datasetter.ErrFacetUnavailable) {
					return fmt.Errorf("FacetUnavailableError: %w", err)
				}
				return err
			}

			data := server.NewCountByEntries(hist)
			return writeJSON(cmd.OutOrStdout(), server.CountByResponse{
				Facet:   facet,
				Rows:    len(data),
				Skip:    q.skip,
				Filters: filters,
				Data:    data,
			})
		},
	}
	q.register(cmd, true)
	return cmd
}

func newSampleCmd(flags *rootFlags) *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a page of the matching rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := q.open(cmd, flags)
			if err != nil {
				return err
			}
			filters, err := q.parseFilters(ds.Schema())
			if err != nil {
				return err
			}

			rows, err := ds.Sample(q.page(), filters)
			if err != nil {
				return err
			}
			n, err := ds.Count(filters)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), server.SampleResponse{
				Count:   n,
				Rows:    len(rows),
				Skip:    q.skip,
				Filters: filters,
				Data:    rows,
			})
		},
	}
	q.register(cmd, true)
	return cmd
}
