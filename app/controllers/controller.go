// Package controllers adapts HTTP requests to the application services.
package controllers

import (
	"strconv"
	"time"

	appctx "github.com/shashiranjanraj/logitrack/pkg/ctx"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
)

// Response headers reporting cache behaviour.
const (
	HeaderCacheHit = "X-Cache-Hit"
	HeaderQueryMS  = "X-Query-MS"
)

// URLBuilder resolves a named route to a path.
type URLBuilder interface {
	URL(name string, params map[string]string) (string, error)
}

func setCacheHit(c *appctx.Context, hit bool) {
	c.SetHeader(HeaderCacheHit, strconv.FormatBool(hit))
}

func setQueryTime(c *appctx.Context, d time.Duration) {
	c.SetHeader(HeaderQueryMS, strconv.FormatInt(d.Milliseconds(), 10))
}

// location resolves the Location header for a created resource. A lookup
// failure is logged and the header omitted.
func location(c *appctx.Context, urls URLBuilder, name string, params map[string]string) string {
	url, err := urls.URL(name, params)
	if err != nil {
		logger.WithCtx(c.Context()).Warn("location header", "route", name, "error", err)
		return ""
	}
	return url
}
