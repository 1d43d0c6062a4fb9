// internal/stylesheet/location.go
//
// Closed enumeration of enqueue locations.
//
// Context
// -------
// The location column decides which rendered views a stylesheet attaches
// to.  The set is closed: adding a location means adding a constant here
// AND a case to targeting.Applies, so the compiler and the exhaustiveness
// test keep the two in sync.  An unknown value stored in the database is
// never an error at read time; it simply fails closed at targeting time.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package stylesheet

import "fmt"

// Location names the rule governing where a stylesheet attaches.
type Location string

const (
	Everywhere Location = "everywhere" // every frontend view
	Admin      Location = "admin"      // admin views only
	Pages      Location = "pages"      // singular pages
	Posts      Location = "posts"      // singular posts of type "post"
	Archives   Location = "archives"   // archive listings
	Homepage   Location = "homepage"   // front page
	Specific   Location = "specific"   // explicit content-ID list
	PostType   Location = "post_type"  // one custom content type
)

// Locations lists every valid value in display order.
var Locations = []Location{
	Everywhere, Admin, Pages, Posts, Archives, Homepage, Specific, PostType,
}

// ParseLocation validates a raw string from a form or API payload.
func ParseLocation(s string) (Location, error) {
	for _, l := range Locations {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown enqueue location %q", s)
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	_, err := ParseLocation(string(l))
	return err == nil
}
