// file: internal/server/static.go
// version: 2.0.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-2f3a4b5c6d7e

package server

import (
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// setupStaticFiles serves the front end from StaticDir. Unknown non-API
// paths, /condition/:id included, get index.html so the client router can
// take over. Without a front end a placeholder page is served instead.
func (s *Server) setupStaticFiles() {
	var site fs.FS
	if s.opts.StaticDir != "" {
		dir := os.DirFS(s.opts.StaticDir)
		if _, err := fs.Stat(dir, "index.html"); err == nil {
			site = dir
		} else {
			log.Warn().Str("dir", s.opts.StaticDir).Msg("no index.html in static dir, serving placeholder")
		}
	}

	var fileServer http.Handler
	if site != nil {
		fileServer = http.FileServer(http.FS(site))
	}

	s.router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if target, ok := legacyAPIRedirect(path); ok {
			if q := c.Request.URL.RawQuery; q != "" {
				target += "?" + q
			}
			c.Redirect(http.StatusPermanentRedirect, target)
			return
		}
		if isAPIPath(path) {
			RespondWithNotFound(c, "endpoint", "")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			RespondWithNotFound(c, "route", "")
			return
		}

		if site == nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderHTML))
			return
		}

		name := strings.TrimPrefix(path, "/")
		if name != "" && name != "index.html" {
			if info, err := fs.Stat(site, name); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}

		index, err := fs.ReadFile(site, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to load frontend")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}

const placeholderHTML = `<!DOCTYPE html>
<html>
<head>
    <title>CFR Navigator</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background-color: #f5f5f5; }
        .container { max-width: 800px; margin: 0 auto; background: white; padding: 40px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .api-endpoint { font-family: 'Courier New', monospace; background: #e9ecef; padding: 4px 8px; margin: 2px 0; border-radius: 3px; display: block; }
        .info-box { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>CFR Navigator API Server</h1>
        <div class="info-box">
            <strong>Front end not found.</strong>
            Point <code>static_dir</code> at a directory containing index.html.
        </div>
        <h2>Available API Endpoints:</h2>
        <code class="api-endpoint">GET /api/health</code>
        <code class="api-endpoint">GET /api/v1/conditions?q=&amp;system=</code>
        <code class="api-endpoint">GET /api/v1/conditions/:id</code>
        <code class="api-endpoint">GET /api/v1/conditions/:id/jump?q=</code>
        <code class="api-endpoint">GET /api/v1/conditions/:id/notes</code>
        <code class="api-endpoint">GET /api/v1/conditions/:id/evidence</code>
        <code class="api-endpoint">GET /api/v1/conditions/:id/evidence/export</code>
        <code class="api-endpoint">GET /api/v1/query/parse?q=</code>
        <code class="api-endpoint">GET /api/v1/systems</code>
        <code class="api-endpoint">GET /api/events</code>
        <code class="api-endpoint">GET /metrics</code>
        <p><small>Educational tool; not legal advice.</small></p>
    </div>
</body>
</html>
`
