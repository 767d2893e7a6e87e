package cli

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sourceflow/pkg/cache"
	"github.com/matzehuels/sourceflow/pkg/chart"
	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/mermaid"
	"github.com/matzehuels/sourceflow/pkg/source"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
	noCache   bool
	cacheTTL  time.Duration
	store     storeOpts
}

// serveCommand creates the serve command, which serves rendered diagrams
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		cacheTTL: time.Hour,
	}

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Serve source dependency diagrams over HTTP",
		Long: `Serve source dependency diagrams over HTTP.

Routes:
  GET /              list of source keys
  GET /diagram/{key} rendered diagram page for a key
  GET /legend        the diagram key charts
  GET /healthz       health check

Rendered pages are cached per config and key; --redis switches the cache
from the local file backend to a shared Redis instance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for a shared markup cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the markup cache")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "how long cached pages stay valid")
	opts.store.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts *serveOpts) error {
	config, err := c.loadConfig(ctx, path, opts.store)
	if err != nil {
		return err
	}

	markupCache, err := newCache(ctx, opts.noCache, opts.redisAddr)
	if err != nil {
		return err
	}
	defer markupCache.Close()

	srv := &diagramServer{
		logger:   c.Logger,
		config:   config,
		digest:   configDigest(config),
		cache:    markupCache,
		cacheTTL: opts.cacheTTL,
	}

	c.Logger.Info("serving diagrams", "addr", opts.addr, "sources", len(config))
	return serveHTTP(ctx, opts.addr, srv.routes())
}

// serveHTTP runs an HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeInternal, err, "serve diagrams")
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// =============================================================================
// Handlers
// =============================================================================

// diagramServer holds the immutable state behind the HTTP handlers: one
// loaded config, its digest for cache keys, and the markup cache.
type diagramServer struct {
	logger   interface{ Debug(msg any, kv ...any) }
	config   source.Config
	digest   string
	cache    cache.Cache
	cacheTTL time.Duration
}

func (s *diagramServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger, middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/diagram/{key}", s.handleDiagram)
	r.Get("/legend", s.handleLegend)
	r.Get("/healthz", s.handleHealth)

	return r
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>sourceflow</title></head>
<body>
<h1>Sources</h1>
<ul>
{{- range .Keys}}
<li><a href="/diagram/{{.}}">{{.}}</a></li>
{{- end}}
</ul>
<p><a href="/legend">legend</a></p>
</body>
</html>
`))

func (s *diagramServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, struct{ Keys []string }{s.config.Keys()}); err != nil {
		s.logger.Debug("render index", "err", err)
	}
}

func (s *diagramServer) handleDiagram(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	cacheKey := cache.DiagramKey(s.digest, key, formatHTML)

	if page, hit, err := s.cache.Get(r.Context(), cacheKey); err == nil && hit {
		s.logger.Debug("cache hit", "key", key)
		writeHTML(w, string(page))
		return
	}

	markup, err := chart.Markup(s.config, key)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := mermaid.HTML(markup, mermaid.DisplayOptions{
		Height:    htmlDiagramHeight,
		Scrolling: true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), cacheKey, []byte(page), s.cacheTTL); err != nil {
		s.logger.Debug("cache set failed", "key", key, "err", err)
	}
	writeHTML(w, page)
}

func (s *diagramServer) handleLegend(w http.ResponseWriter, r *http.Request) {
	nodes, paths := chart.Legend()
	page, err := legendHTML(nodes, paths)
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, page)
}

func (s *diagramServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

// writeError maps error codes to HTTP statuses: NOT_FOUND to 404, the
// invalid-input codes to 400, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidTree,
		errors.ErrCodeInvalidShape, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}
	http.Error(w, errors.UserMessage(err), status)
}
