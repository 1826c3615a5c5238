package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"complaint-portal/shared/pkg/logger"
)

// rewritePath swaps stripPrefix for addPrefix, keeping the rest of the path.
func rewritePath(originalPath, stripPrefix, addPrefix string) string {
	path := strings.TrimPrefix(originalPath, stripPrefix)

	switch {
	case strings.HasSuffix(addPrefix, "/") && strings.HasPrefix(path, "/"):
		return addPrefix + strings.TrimPrefix(path, "/")
	case !strings.HasSuffix(addPrefix, "/") && !strings.HasPrefix(path, "/") && path != "":
		return addPrefix + "/" + path
	default:
		return addPrefix + path
	}
}

// CreateProxy forwards requests to targetHost with the path prefix rewritten.
// Upstream failures become a 502 in the services' error envelope.
func CreateProxy(targetHost, stripPrefix, addPrefix string, log *logrus.Entry) (gin.HandlerFunc, error) {
	target, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("parse upstream %q: %w", targetHost, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithFields(logrus.Fields{
			"upstream": target.Host,
			"path":     r.URL.Path,
		}).Error("upstream request failed")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(gin.H{
			"success": false,
			"code":    "BAD_GATEWAY",
			"error":   "service temporarily unavailable",
		})
	}

	return func(c *gin.Context) {
		c.Request.URL.Path = rewritePath(c.Request.URL.Path, stripPrefix, addPrefix)
		c.Request.URL.RawPath = ""

		c.Request.Header.Set("X-Forwarded-Host", c.Request.Host)
		c.Request.Header.Del("X-Forwarded-For")
		if id := c.GetString("request_id"); id != "" {
			c.Request.Header.Set(logger.RequestIDHeader, id)
		}

		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}
