// internal/targeting/targeting_test.go
//
// Table-driven tests for the targeting rules.
//
// Run: go test ./internal/targeting -v

package targeting

import (
	"testing"

	"github.com/yanizio/cascade/internal/stylesheet"
)

func TestApplies(t *testing.T) {
	cases := []struct {
		name     string
		loc      stylesheet.Location
		targets  string
		postType string
		view     ViewContext
		want     bool
	}{
		{"everywhere fires on empty view", stylesheet.Everywhere, "", "", ViewContext{}, true},
		{"everywhere fires on admin too", stylesheet.Everywhere, "", "", ViewContext{IsAdmin: true}, true},

		{"admin fires on admin view", stylesheet.Admin, "", "", ViewContext{IsAdmin: true}, true},
		{"admin ignores frontend", stylesheet.Admin, "", "", ViewContext{IsPage: true}, false},

		{"pages fires on page", stylesheet.Pages, "", "", ViewContext{IsPage: true}, true},
		{"pages ignores post", stylesheet.Pages, "", "", ViewContext{IsSingularPost: true}, false},

		{"posts fires on singular post", stylesheet.Posts, "", "", ViewContext{IsSingularPost: true}, true},
		{"posts ignores archive", stylesheet.Posts, "", "", ViewContext{IsArchive: true}, false},

		{"archives fires on archive", stylesheet.Archives, "", "", ViewContext{IsArchive: true}, true},
		{"homepage fires on front page", stylesheet.Homepage, "", "", ViewContext{IsFrontPage: true}, true},
		{"homepage ignores inner page", stylesheet.Homepage, "", "", ViewContext{IsPage: true}, false},

		{"specific matches listed id", stylesheet.Specific, "5, 7,9", "",
			ViewContext{IsSingular: true, ContentID: "7"}, true},
		{"specific trims entries", stylesheet.Specific, " 5 ,7", "",
			ViewContext{IsSingular: true, ContentID: "5"}, true},
		{"specific rejects unlisted id", stylesheet.Specific, "5, 7,9", "",
			ViewContext{IsSingular: true, ContentID: "8"}, false},
		{"specific needs singular view", stylesheet.Specific, "5,7,9", "",
			ViewContext{IsArchive: true, ContentID: "7"}, false},
		{"specific ignores empty entries", stylesheet.Specific, ",,7,", "",
			ViewContext{IsSingular: true, ContentID: "7"}, true},
		{"specific empty list never fires", stylesheet.Specific, "", "",
			ViewContext{IsSingular: true, ContentID: "7"}, false},

		{"post_type matches bound type", stylesheet.PostType, "", "event",
			ViewContext{IsSingular: true, ContentType: "event"}, true},
		{"post_type rejects other type", stylesheet.PostType, "", "event",
			ViewContext{IsSingular: true, ContentType: "post"}, false},
		{"post_type needs singular view", stylesheet.PostType, "", "event",
			ViewContext{IsArchive: true, ContentType: "event"}, false},
		{"post_type empty binding never fires", stylesheet.PostType, "", "",
			ViewContext{IsSingular: true, ContentType: ""}, false},

		{"unknown location fails closed", stylesheet.Location("sidebar"), "", "",
			ViewContext{IsAdmin: true, IsPage: true, IsSingular: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Applies(tc.loc, tc.targets, tc.postType, tc.view)
			if got != tc.want {
				t.Fatalf("Applies(%q) = %v, want %v", tc.loc, got, tc.want)
			}
		})
	}
}

// Every declared location must have a view that makes it fire; a constant
// added to stylesheet.Locations without a case here fails closed and this
// test catches it.
func TestApplies_ExhaustiveOverLocations(t *testing.T) {
	firing := map[stylesheet.Location]struct {
		targets, postType string
		view              ViewContext
	}{
		stylesheet.Everywhere: {view: ViewContext{}},
		stylesheet.Admin:      {view: ViewContext{IsAdmin: true}},
		stylesheet.Pages:      {view: ViewContext{IsPage: true}},
		stylesheet.Posts:      {view: ViewContext{IsSingularPost: true}},
		stylesheet.Archives:   {view: ViewContext{IsArchive: true}},
		stylesheet.Homepage:   {view: ViewContext{IsFrontPage: true}},
		stylesheet.Specific: {targets: "1",
			view: ViewContext{IsSingular: true, ContentID: "1"}},
		stylesheet.PostType: {postType: "event",
			view: ViewContext{IsSingular: true, ContentType: "event"}},
	}

	for _, loc := range stylesheet.Locations {
		f, ok := firing[loc]
		if !ok {
			t.Fatalf("no firing view declared for location %q", loc)
		}
		if !Applies(loc, f.targets, f.postType, f.view) {
			t.Errorf("location %q never fires", loc)
		}
	}
}
