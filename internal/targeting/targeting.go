// internal/targeting/targeting.go
//
// Rule engine deciding whether a stylesheet attaches to the current view.
//
// Context
// -------
// Each stylesheet record carries one enqueue location.  Given the view
// the platform is about to render, Applies answers "does this rule fire
// here".  Every rule is a pure predicate over disjoint ViewContext
// fields; no rule consults another rule's fields, so there is no
// fallthrough ambiguity.  An unknown location fails closed: a value this
// engine does not recognize never attaches anything.
//
// Notes
// -----
// • The switch is exhaustive over stylesheet.Locations; the test suite
//   asserts every listed location has a firing case.
// • Oxford commas, two spaces after periods.
package targeting

import (
	"strings"

	"github.com/yanizio/cascade/internal/stylesheet"
)

// ViewContext describes the view the platform is rendering.  It is
// supplied per render by the host; nothing here touches storage.
type ViewContext struct {
	IsAdmin        bool   // admin screen, not a public page
	IsPage         bool   // singular page
	IsSingularPost bool   // singular post of type "post"
	IsArchive      bool   // archive listing
	IsFrontPage    bool   // site homepage
	IsSingular     bool   // any singular content view
	ContentID      string // set when IsSingular
	ContentType    string // set when IsSingular
}

// Applies reports whether a record with the given location and extras
// attaches to view.
func Applies(loc stylesheet.Location, specificTargets, customPostType string, view ViewContext) bool {
	switch loc {
	case stylesheet.Everywhere:
		return true
	case stylesheet.Admin:
		return view.IsAdmin
	case stylesheet.Pages:
		return view.IsPage
	case stylesheet.Posts:
		return view.IsSingularPost
	case stylesheet.Archives:
		return view.IsArchive
	case stylesheet.Homepage:
		return view.IsFrontPage
	case stylesheet.Specific:
		return view.IsSingular && inTargetList(specificTargets, view.ContentID)
	case stylesheet.PostType:
		return view.IsSingular && customPostType != "" &&
			customPostType == view.ContentType
	default:
		return false
	}
}

// inTargetList parses a comma-separated ID list and tests membership.
// Entries are trimmed; empties are dropped.  "5, 7,9" matches "7".
func inTargetList(list, id string) bool {
	if id == "" {
		return false
	}
	for _, raw := range strings.Split(list, ",") {
		if strings.TrimSpace(raw) == id {
			return true
		}
	}
	return false
}
