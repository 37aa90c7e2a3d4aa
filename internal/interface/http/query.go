package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

var reservedParams = map[string]bool{"skip": true, "limit": true, "order_by": true, "search": true}

// parseListQuery reads skip, limit, order_by and search. Every other query
// parameter becomes an equality filter.
func parseListQuery(c *gin.Context) (repository.ListQuery, error) {
	values := c.Request.URL.Query()
	q := repository.ListQuery{
		OrderBy: values.Get("order_by"),
		Search:  values.Get("search"),
	}
	var err error
	if q.Skip, err = intParam(values, "skip"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(values, "limit"); err != nil {
		return q, err
	}
	for key, vals := range values {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[key] = vals[0]
	}
	return q, nil
}

func intParam(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Query(name + " must be a non-negative integer")
	}
	return n, nil
}

// buildMetadata describes one page of a listing. Links keep the request's
// other query parameters.
func buildMetadata(c *gin.Context, count, total, skip, limit int) pageMetadata {
	md := pageMetadata{
		StatusCode:  http.StatusOK,
		Count:       count,
		Total:       total,
		TotalPages:  1,
		CurrentPage: 1,
	}
	if limit <= 0 {
		return md
	}
	if total > 0 {
		md.TotalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	md.CurrentPage = skip/limit + 1
	if skip+limit < total {
		md.Links.Next = pageLink(c, skip+limit, limit)
	}
	if skip > 0 {
		prev := skip - limit
		if prev < 0 {
			prev = 0
		}
		md.Links.Previous = pageLink(c, prev, limit)
	}
	return md
}

func pageLink(c *gin.Context, skip, limit int) *string {
	u := *c.Request.URL
	values := u.Query()
	values.Set("skip", strconv.Itoa(skip))
	values.Set("limit", strconv.Itoa(limit))
	u.RawQuery = values.Encode()
	s := u.RequestURI()
	return &s
}
