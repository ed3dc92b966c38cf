package datasetter

const (
	// DefaultRows is the page size used when none is given.
	DefaultRows = 10
)

// Page selects a window of a result: skip Skip entries, then take up to Rows.
type Page struct {
	Rows int
	Skip int
}

// DefaultPage returns the first page of DefaultRows entries.
func DefaultPage() Page {
	return Page{Rows: DefaultRows}
}

// Window returns the half-open bounds [lo, hi) of page within a sequence of
// n entries. Negative Rows or Skip are treated as zero; bounds past the end
// are truncated, so lo <= hi <= n always holds.
func Window(n int, page Page) (lo, hi int) {
	skip := max(page.Skip, 0)
	rows := max(page.Rows, 0)

	lo = min(skip, n)
	if rows > n-lo {
		return lo, n
	}
	return lo, lo + rows
}

// Paginate returns the page of s selected by Window. The result aliases s.
func Paginate[T any](s []T, page Page) []T {
	lo, hi := Window(len(s), page)
	return s[lo:hi]
}
