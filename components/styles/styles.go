// components/styles/styles.go
//
// Stylesheet-manager admin component.
//
// Context
// -------
// This component is the admin surface over the manager: one route per
// administrative action, JSON envelope responses, form-encoded inputs
// (multipart for upload) exactly the way the platform's admin scripts
// talk to it.  Authorization and the anti-forgery token are enforced by
// the middleware stack cmd/web wraps around the mount; by the time a
// handler runs, both gates have passed.
//
// The component also owns the `stylesheet` table schema; cmd/web applies
// Migrations() at boot.
//
//------------------------------------------------------------------------------

package styles

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/cascade/internal/component"
	"github.com/yanizio/cascade/internal/manager"
	"github.com/yanizio/cascade/internal/stylesheet"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Ops is the slice of the manager the handlers call.  *manager.Manager
// satisfies it; tests inject fakes.
type Ops interface {
	Create(ctx context.Context, name string) (*stylesheet.Record, error)
	Upload(ctx context.Context, name string, content []byte) (*stylesheet.Record, error)
	Delete(ctx context.Context, name string) error
	SetActive(ctx context.Context, name string, active bool) error
	SetPriority(ctx context.Context, name string, priority int) error
	SetLocation(ctx context.Context, id uint64, location, extra string) error
	SetTargets(ctx context.Context, id uint64, targets string) error
	SetPostType(ctx context.Context, id uint64, postType string) error
	ReadContent(ctx context.Context, name string) ([]byte, error)
	SaveContent(ctx context.Context, name string, content []byte) error
	Status(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]manager.Entry, error)
}

// Component encapsulates the admin CRUD surface.
type Component struct {
	ops Ops
	log *zap.SugaredLogger
}

// New builds the component around a manager.
func New(ops Ops, log *zap.SugaredLogger) *Component {
	if log == nil {
		log = zap.S()
	}
	return &Component{ops: ops, log: log}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "styles" }

// Mount is the admin path prefix cmd/web mounts Routes() under.
func (c *Component) Mount() string { return "/admin/css" }

// Migrations returns the stylesheet table DDL.
func (c *Component) Migrations() []string {
	return []string{`
        CREATE TABLE IF NOT EXISTS stylesheet (
            id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
            file_name        VARCHAR(255)    NOT NULL,
            last_edited      DATETIME        NOT NULL,
            active           BOOLEAN         NOT NULL DEFAULT FALSE,
            enqueue_location VARCHAR(50)     NOT NULL DEFAULT 'everywhere',
            priority         INT             NOT NULL DEFAULT 10,
            specific_targets VARCHAR(512)    NULL,
            custom_post_type VARCHAR(100)    NULL,
            created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP
                             ON UPDATE CURRENT_TIMESTAMP,
            PRIMARY KEY (id),
            UNIQUE KEY uq_stylesheet_file_name (file_name)
        )`}
}

// Routes builds the router cmd/web mounts at Mount().
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleList)
	r.Post("/", c.handleCreate)
	r.Post("/upload", c.handleUpload)
	r.Post("/delete", c.handleDelete)
	r.Post("/activate", c.handleActivate)
	r.Post("/priority", c.handlePriority)
	r.Post("/location", c.handleLocation)
	r.Post("/targets", c.handleTargets)
	r.Post("/post-type", c.handlePostType)
	r.Get("/status", c.handleStatus)
	r.Get("/content", c.handleContent)
	r.Post("/content", c.handleSaveContent)
	return r
}
