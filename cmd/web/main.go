// cmd/web/main.go
//
// Cascade – stylesheet-manager HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate configuration (YAML + env overlay).
//
//  4. Open the platform DB, apply component migrations, and prime the
//     active-styles gauge.
//
//  5. Build the router:
//
//     • /admin/css/…  – styles component, wrapped in the capability and
//       anti-forgery gates (both run before any side effect)
//     • /enqueue      – render-time resolution → <link> block
//     • /assets/css/… – the managed stylesheet directory
//     • /metrics      – Prometheus
//
//  6. Serve with hardened timeouts; SIGINT/SIGTERM drain via errgroup.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/cascade/components/styles"
	"github.com/yanizio/cascade/internal/acl"
	"github.com/yanizio/cascade/internal/assetrepo"
	"github.com/yanizio/cascade/internal/auth"
	"github.com/yanizio/cascade/internal/component"
	"github.com/yanizio/cascade/internal/config"
	"github.com/yanizio/cascade/internal/database"
	"github.com/yanizio/cascade/internal/enqueue"
	"github.com/yanizio/cascade/internal/head"
	"github.com/yanizio/cascade/internal/logger"
	"github.com/yanizio/cascade/internal/manager"
	"github.com/yanizio/cascade/internal/metrics"
	"github.com/yanizio/cascade/internal/middleware"
	"github.com/yanizio/cascade/internal/server"
	"github.com/yanizio/cascade/internal/stylesheet"
	"github.com/yanizio/cascade/internal/targeting"
)

const serverEnvPath = "/usr/local/etc/cascade/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalw("load config", "err", err)
	}

	//
	// ── 1.  Platform DB connect ─────────────────────────────────────────
	//
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logOut.Fatalw("connect platform DB", "err", err)
	}
	defer db.Close()
	logOut.Infow("platform DB online")

	//
	// ── 2.  Stores, repository, manager ─────────────────────────────────
	//
	repo, err := assetrepo.New(cfg.Assets.Dir)
	if err != nil {
		logOut.Fatalw("open asset directory", "dir", cfg.Assets.Dir, "err", err)
	}
	store := stylesheet.NewStore(db)
	mgr := manager.New(store, repo, logOut)

	component.Register(styles.New(mgr, logOut))

	// Components own their schema; apply it before serving.
	for _, c := range component.All() {
		for _, ddl := range c.Migrations() {
			if _, err := db.Exec(ddl); err != nil {
				logOut.Fatalw("apply migration", "component", c.Name(), "err", err)
			}
		}
		logOut.Infow("component online", "component", c.Name(), "mount", c.Mount())
	}

	// Prime the gauge so /metrics is honest before the first admin action.
	if n, err := store.CountActive(context.Background()); err == nil {
		metrics.ActiveStyles.Set(float64(n))
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	resolver := enqueue.New(repo, cfg.Assets.BaseURL, logOut)

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(auth.FromHeader)

	for _, c := range component.All() {
		r.Route(c.Mount(), func(admin chi.Router) {
			admin.Use(acl.RequireCapability(db.DB, acl.CapUploadFiles))
			admin.Use(middleware.AntiForgery)
			admin.Mount("/", c.Routes())
		})
	}

	r.Get("/enqueue", enqueueHandler(store, resolver, logOut))
	r.Handle("/assets/css/*", http.StripPrefix("/assets/css/",
		http.FileServer(http.Dir(repo.Dir()))))
	r.Handle("/metrics", promhttp.Handler())

	//
	// ── 4.  Serve until signalled ───────────────────────────────────────
	//
	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("server exited", "err", err)
	}
	logOut.Infow("shutdown complete")
}

/*──────────────────────── render-time resolution ───────────────────────────*/

// enqueueHandler resolves the attach list for the view described by the
// query string and returns the <link> block the platform splices into
// its page <head>.  Resolution never fails the render: store errors
// degrade to an empty block.
func enqueueHandler(store *stylesheet.Store, resolver *enqueue.Resolver, logOut *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := viewFromQuery(r)

		records, err := store.ListAll(r.Context())
		if err != nil {
			logOut.Errorw("enqueue: list records", "err", err)
			records = nil
		}

		b := head.New()
		for _, att := range resolver.Resolve(records, view) {
			b.Stylesheet(att)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(b.Links()))
	}
}

// viewFromQuery maps the platform's render flags onto a ViewContext.
func viewFromQuery(r *http.Request) targeting.ViewContext {
	q := r.URL.Query()
	flag := func(name string) bool {
		switch q.Get(name) {
		case "1", "true", "yes":
			return true
		}
		return false
	}

	view := targeting.ViewContext{
		IsAdmin:        flag("admin"),
		IsPage:         flag("page"),
		IsSingularPost: flag("post"),
		IsArchive:      flag("archive"),
		IsFrontPage:    flag("front"),
		ContentID:      q.Get("content_id"),
		ContentType:    q.Get("content_type"),
	}
	view.IsSingular = view.IsPage || view.IsSingularPost || flag("singular")
	return view
}
