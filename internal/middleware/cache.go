package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/pkg/response"
)

const (
	responseMetaKey  = "response_meta"
	requestStartKey  = "request_start"
	cacheHitKey      = "cache_hit"
	processingTimeMs = "processing_time_ms"
)

// WithResponseMeta initialises response metadata storage on the request context.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestStartKey, time.Now())
		c.Set(responseMetaKey, response.Meta{})
		c.Next()
	}
}

// SetCacheHit records cache hit information for the current response.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// ExtractMeta returns the metadata collected so far with the elapsed
// processing time filled in.
func ExtractMeta(c *gin.Context) response.Meta {
	if c == nil {
		return nil
	}
	meta := ensureMeta(c)
	if start, ok := c.Get(requestStartKey); ok {
		if t, ok := start.(time.Time); ok {
			meta[processingTimeMs] = time.Since(t).Milliseconds()
		}
	}
	return meta
}

func ensureMeta(c *gin.Context) response.Meta {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(response.Meta); ok {
			return typed
		}
	}
	meta := response.Meta{}
	c.Set(responseMetaKey, meta)
	return meta
}
