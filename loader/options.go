package loader

import "github.com/hupe1980/datasetter/table"

type options struct {
	comma rune
	kinds map[string]table.Kind
}

// Option configures the text decoders.
type Option func(*options)

// WithDelimiter sets the CSV field delimiter. The default is ','.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.comma = r
	}
}

// WithKinds pins the kind of the named columns. CSV cells are parsed as the
// pinned kind instead of being inferred; for JSON Lines the decoded values
// are converted with ApplyKinds. Values that do not convert are an error.
func WithKinds(kinds map[string]table.Kind) Option {
	return func(o *options) {
		if o.kinds == nil {
			o.kinds = make(map[string]table.Kind, len(kinds))
		}
		for k, v := range kinds {
			o.kinds[k] = v
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{comma: ','}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
