package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

// parsePage reads ?page and ?limit; bad values fall back to defaults
func parsePage(c *gin.Context, defaultLimit int) types.PageRequest {
	req := types.PageRequest{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.Limit = n
	}
	return req.Normalize()
}

// withLinks fills the absolute next and previous URLs of page
func withLinks[T any](c *gin.Context, page *types.Page[T], req types.PageRequest) *types.Page[T] {
	if int64(req.Offset()+len(page.Results)) < page.Count {
		next := pageURL(c, req.Page+1)
		page.Next = &next
	}
	if req.Page > 1 && page.Count > 0 {
		prev := pageURL(c, req.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, n int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
