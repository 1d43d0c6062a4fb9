// components/styles/handlers.go
//
// HTTP handlers for the admin actions.
//
// Context
// -------
// Inputs arrive form-encoded (`file`, `active`, `priority`, …) and the
// upload as multipart under `css_file`.  Every response is the JSON
// envelope {success, data|error}; manager error Kinds map onto HTTP
// status codes in one place (kindStatus) so handlers never pick codes
// ad hoc.  Each action increments the admin-action counter with its
// outcome label.
//
//------------------------------------------------------------------------------

package styles

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/yanizio/cascade/internal/form"
	"github.com/yanizio/cascade/internal/manager"
	"github.com/yanizio/cascade/internal/metrics"
)

// maxUploadBytes caps a stylesheet upload.  CSS measured in megabytes is
// an input error, not a stylesheet.
const maxUploadBytes = 2 << 20

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func kindStatus(err error) int {
	switch manager.KindOf(err) {
	case manager.KindValidation:
		return http.StatusBadRequest
	case manager.KindConflict:
		return http.StatusConflict
	case manager.KindNotFound:
		return http.StatusNotFound
	case manager.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (c *Component) ok(w http.ResponseWriter, action string, data any) {
	metrics.AdminActionTotal.WithLabelValues(action, "success").Inc()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (c *Component) fail(w http.ResponseWriter, action string, err error) {
	metrics.AdminActionTotal.WithLabelValues(action, "error").Inc()
	c.log.Warnw("admin action failed", "action", action, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kindStatus(err))
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: err.Error()})
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// handleList returns the merged admin table plus a fresh anti-forgery
// token for the page's subsequent mutations.
func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := c.ops.List(r.Context())
	if err != nil {
		c.fail(w, "list", err)
		return
	}
	tok, err := form.GenerateToken()
	if err != nil {
		c.fail(w, "list", err)
		return
	}
	c.ok(w, "list", map[string]any{"files": entries, "token": tok})
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec, err := c.ops.Create(r.Context(), r.FormValue("file"))
	if err != nil {
		c.fail(w, "create", err)
		return
	}
	c.ok(w, "create", map[string]any{"id": rec.ID, "file": rec.FileName})
}

func (c *Component) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		c.fail(w, "upload",
			&manager.Error{Kind: manager.KindValidation, Op: "upload", Msg: "no file provided", Err: err})
		return
	}
	f, hdr, err := r.FormFile("css_file")
	if err != nil {
		c.fail(w, "upload",
			&manager.Error{Kind: manager.KindValidation, Op: "upload", Msg: "no file provided", Err: err})
		return
	}
	defer f.Close()

	// Read one byte past the cap so an oversized upload is rejected
	// outright instead of being stored truncated.
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.fail(w, "upload",
			&manager.Error{Kind: manager.KindStorage, Op: "upload", Msg: "failed to read upload", Err: err})
		return
	}
	if len(content) > maxUploadBytes {
		c.fail(w, "upload",
			&manager.Error{Kind: manager.KindValidation, Op: "upload", Msg: "file exceeds the upload size limit"})
		return
	}

	rec, err := c.ops.Upload(r.Context(), hdr.Filename, content)
	if err != nil {
		c.fail(w, "upload", err)
		return
	}
	c.ok(w, "upload", map[string]any{"id": rec.ID, "file": rec.FileName})
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := c.ops.Delete(r.Context(), r.FormValue("file")); err != nil {
		c.fail(w, "delete", err)
		return
	}
	c.ok(w, "delete", "file and record deleted")
}

func (c *Component) handleActivate(w http.ResponseWriter, r *http.Request) {
	active, err := strconv.ParseBool(r.FormValue("active"))
	if err != nil {
		c.fail(w, "activate",
			&manager.Error{Kind: manager.KindValidation, Op: "activate", Msg: "active must be boolean", Err: err})
		return
	}
	if err := c.ops.SetActive(r.Context(), r.FormValue("file"), active); err != nil {
		c.fail(w, "activate", err)
		return
	}
	c.ok(w, "activate", "activation status updated")
}

func (c *Component) handlePriority(w http.ResponseWriter, r *http.Request) {
	priority, err := strconv.Atoi(r.FormValue("priority"))
	if err != nil {
		c.fail(w, "priority",
			&manager.Error{Kind: manager.KindValidation, Op: "priority", Msg: "priority must be an integer", Err: err})
		return
	}
	if err := c.ops.SetPriority(r.Context(), r.FormValue("file"), priority); err != nil {
		c.fail(w, "priority", err)
		return
	}
	c.ok(w, "priority", "priority updated")
}

// handleLocation updates the targeting rule.  The `value` field carries
// the comma-separated IDs for "specific" and the content type for
// "post_type"; other locations ignore it.
func (c *Component) handleLocation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	if err != nil {
		c.fail(w, "location",
			&manager.Error{Kind: manager.KindValidation, Op: "location", Msg: "invalid stylesheet id", Err: err})
		return
	}
	if err := c.ops.SetLocation(r.Context(), id, r.FormValue("location"), r.FormValue("value")); err != nil {
		c.fail(w, "location", err)
		return
	}
	c.ok(w, "location", "enqueue location updated")
}

func (c *Component) handleTargets(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	if err != nil {
		c.fail(w, "targets",
			&manager.Error{Kind: manager.KindValidation, Op: "targets", Msg: "invalid stylesheet id", Err: err})
		return
	}
	if err := c.ops.SetTargets(r.Context(), id, r.FormValue("value")); err != nil {
		c.fail(w, "targets", err)
		return
	}
	c.ok(w, "targets", "specific targets updated")
}

func (c *Component) handlePostType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	if err != nil {
		c.fail(w, "post_type",
			&manager.Error{Kind: manager.KindValidation, Op: "post_type", Msg: "invalid stylesheet id", Err: err})
		return
	}
	if err := c.ops.SetPostType(r.Context(), id, r.FormValue("value")); err != nil {
		c.fail(w, "post_type", err)
		return
	}
	c.ok(w, "post_type", "custom post type updated")
}

func (c *Component) handleStatus(w http.ResponseWriter, r *http.Request) {
	active, err := c.ops.Status(r.Context(), r.URL.Query().Get("file"))
	if err != nil {
		c.fail(w, "status", err)
		return
	}
	c.ok(w, "status", map[string]bool{"active": active})
}

func (c *Component) handleContent(w http.ResponseWriter, r *http.Request) {
	body, err := c.ops.ReadContent(r.Context(), r.URL.Query().Get("file"))
	if err != nil {
		c.fail(w, "read", err)
		return
	}
	c.ok(w, "read", map[string]string{"content": string(body)})
}

func (c *Component) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	err := c.ops.SaveContent(r.Context(), r.FormValue("file"), []byte(r.FormValue("content")))
	if err != nil {
		c.fail(w, "save", err)
		return
	}
	c.ok(w, "save", "file saved")
}
