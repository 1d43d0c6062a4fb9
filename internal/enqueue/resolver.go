// internal/enqueue/resolver.go
//
// Render-time resolution: which stylesheets attach, in what order.
//
// Context
// -------
// The Resolver runs once per page render.  It takes a snapshot of the
// record table plus the view being rendered and emits the ordered list of
// attachments the head builder turns into <link> tags.  It owns neither
// input: records come from the store, file presence and mtimes from the
// asset repository.
//
// Workflow
// --------
//  1. Keep active records only.
//  2. Keep records whose targeting rule fires for this view.  A row
//     carrying an unrecognized location is skipped with a warn and a
//     counter rather than guessed at.
//  3. Skip records whose backing file is gone (warn + counter; a missing
//     asset must degrade silently, never fail the render).
//  4. Stable-sort ascending by priority; equal priorities keep store
//     order, so repeated calls with unchanged input are byte-identical.
//  5. Version each survivor with the file mtime, so a content edit
//     invalidates downstream caches without a manual bump.
//
// Resolve is pure computation over its inputs and mutates nothing, so
// concurrent renders may share one Resolver freely.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package enqueue

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/cascade/internal/metrics"
	"github.com/yanizio/cascade/internal/stylesheet"
	"github.com/yanizio/cascade/internal/targeting"
)

// Files is the slice of the asset repository the resolver needs.
type Files interface {
	Exists(fileName string) bool
	LastModified(fileName string) (time.Time, error)
}

// Attachment is one resolved stylesheet reference, ready for the head
// builder.  Version is the backing file's mtime in Unix seconds.
type Attachment struct {
	Handle  string // stable slug derived from the file name
	URL     string // absolute or root-relative, no version query yet
	Version int64
}

// Resolver selects and orders active stylesheets for a view.
type Resolver struct {
	files   Files
	baseURL string
	log     *zap.SugaredLogger
}

// New builds a Resolver.  baseURL is the public prefix the asset
// directory is served under, e.g. "/assets/css".
func New(files Files, baseURL string, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.S()
	}
	return &Resolver{
		files:   files,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Resolve returns the attach list for view, lowest priority first.
func (r *Resolver) Resolve(records []stylesheet.Record, view targeting.ViewContext) []Attachment {
	metrics.ResolveTotal.Inc()

	matched := make([]stylesheet.Record, 0, len(records))
	for _, rec := range records {
		if !rec.Active {
			continue
		}
		if !rec.Location.Valid() {
			// Fail closed, but leave a trail: a row like this means the
			// table was edited outside the admin surface.
			metrics.ResolveInvalidRecordTotal.Inc()
			r.log.Warnw("unknown enqueue location, skipping",
				"file", rec.FileName, "id", rec.ID, "location", string(rec.Location))
			continue
		}
		if !targeting.Applies(rec.Location, rec.Targets(), rec.PostType(), view) {
			continue
		}
		if !r.files.Exists(rec.FileName) {
			metrics.ResolveMissingFileTotal.Inc()
			r.log.Warnw("stylesheet file missing, skipping",
				"file", rec.FileName, "id", rec.ID)
			continue
		}
		matched = append(matched, rec)
	}

	// Stable keeps store order for equal priorities.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority < matched[j].Priority
	})

	out := make([]Attachment, 0, len(matched))
	for _, rec := range matched {
		mt, err := r.files.LastModified(rec.FileName)
		if err != nil {
			// Lost a race with a delete between Exists and Stat; treat
			// the same as a missing file.
			metrics.ResolveMissingFileTotal.Inc()
			r.log.Warnw("stylesheet file vanished during resolve",
				"file", rec.FileName, "err", err)
			continue
		}
		out = append(out, Attachment{
			Handle:  Handle(rec.FileName),
			URL:     r.baseURL + "/" + rec.FileName,
			Version: mt.Unix(),
		})
	}
	return out
}

// Handle derives a stable slug from a file name: extension dropped,
// runs of non-alphanumerics collapsed to single dashes.
func Handle(fileName string) string {
	base := strings.TrimSuffix(strings.ToLower(fileName), ".css")
	var b strings.Builder
	dash := false
	for _, c := range base {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
