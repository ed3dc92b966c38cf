package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/table"
)

// CountResponse is the body of GET /<uri>/count.
type CountResponse struct {
	Count   int                `json:"count"`
	Filters datasetter.Filters `json:"filters"`
}

// CountByEntry is one histogram bucket with its value rendered as text.
// The null bucket has a nil Value and serializes as JSON null.
type CountByEntry struct {
	Value *string `json:"value"`
	Count int     `json:"count"`
}

// NewCountByEntries renders a histogram for a count-by response.
func NewCountByEntries(hist datasetter.Histogram) []CountByEntry {
	data := make([]CountByEntry, len(hist))
	for i, b := range hist {
		data[i].Count = b.Count
		if !b.Value.IsNull() {
			text := b.Value.Text()
			data[i].Value = &text
		}
	}
	return data
}

// CountByResponse is the body of GET /<uri>/count-by/:facet.
type CountByResponse struct {
	Facet   string             `json:"facet"`
	Rows    int                `json:"rows"`
	Skip    int                `json:"skip"`
	Filters datasetter.Filters `json:"filters"`
	Data    []CountByEntry     `json:"data"`
}

// SampleResponse is the body of GET /<uri>/sample.
type SampleResponse struct {
	Count   int                `json:"count"`
	Rows    int                `json:"rows"`
	Skip    int                `json:"skip"`
	Filters datasetter.Filters `json:"filters"`
	Data    []table.Record     `json:"data"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type handler struct {
	ds     datasetter.Dataset
	facets []string
	schema table.Schema
}

// Mount registers the endpoints of ds under /<uri>.
func Mount(r gin.IRouter, uri string, ds datasetter.Dataset) {
	h := &handler{
		ds:     ds,
		facets: ds.Metadata().Facets,
		schema: datasetter.SchemaOf(ds),
	}

	g := r.Group("/" + strings.Trim(uri, "/"))
	g.GET("/", h.metadata)
	g.GET("/count", h.count)
	g.GET("/count-by/:facet", h.countBy)
	g.GET("/sample", h.sample)
}

func (h *handler) metadata(c *gin.Context) {
	c.JSON(http.StatusOK, h.ds.Metadata())
}

func (h *handler) count(c *gin.Context) {
	filters, err := h.filters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.ds.Count(filters)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{Count: n, Filters: filters})
}

func (h *handler) countBy(c *gin.Context) {
	facet := c.Param("facet")

	page, err := pageParams(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	filters, err := h.filters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	hist, err := h.ds.CountBy(facet, page, filters)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data := NewCountByEntries(hist)
	c.JSON(http.StatusOK, CountByResponse{
		Facet:   facet,
		Rows:    len(data),
		Skip:    page.Skip,
		Filters: filters,
		Data:    data,
	})
}

func (h *handler) sample(c *gin.Context) {
	page, err := pageParams(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	filters, err := h.filters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rows, err := h.ds.Sample(page, filters)
	if err != nil {
		abortWithError(c, err)
		return
	}
	n, err := h.ds.Count(filters)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if rows == nil {
		rows = []table.Record{}
	}
	c.JSON(http.StatusOK, SampleResponse{
		Count:   n,
		Rows:    len(rows),
		Skip:    page.Skip,
		Filters: filters,
		Data:    rows,
	})
}

// filters reads the declared facets from the query string. Absent facets are
// not filtered on; other query keys are ignored.
func (h *handler) filters(c *gin.Context) (datasetter.Filters, error) {
	filters := datasetter.Filters{}
	for _, facet := range h.facets {
		text, ok := c.GetQuery(facet)
		if !ok {
			continue
		}
		v, err := h.schema.Coerce(facet, text)
		if err != nil {
			return nil, fmt.Errorf("query parameter %q: %w", facet, err)
		}
		filters[facet] = v
	}
	return filters, nil
}

func pageParams(c *gin.Context) (datasetter.Page, error) {
	page := datasetter.DefaultPage()

	if text, ok := c.GetQuery("rows"); ok {
		n, err := strconv.Atoi(text)
		if err != nil {
			return page, fmt.Errorf("query parameter \"rows\": %q is not an integer", text)
		}
		page.Rows = n
	}
	if text, ok := c.GetQuery("skip"); ok {
		n, err := strconv.Atoi(text)
		if err != nil {
			return page, fmt.Errorf("query parameter \"skip\": %q is not an integer", text)
		}
		page.Skip = n
	}
	return page, nil
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
}

// abortWithError maps dataset errors to HTTP replies.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, datasetter.ErrFacetUnavailable):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
			Detail: "FacetUnavailableError: " + err.Error(),
		})
	case errors.Is(err, datasetter.ErrUnimplemented):
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Detail: "NotImplementedError: " + err.Error(),
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Detail: "internal server error",
		})
	}
}
