package http

import (
	"net/url"
	"regexp"
)

type resource int

const (
	resourceGroups resource = iota
	resourceTransfers
	resourceSchedules
)

func (r resource) String() string {
	switch r {
	case resourceGroups:
		return "groups"
	case resourceTransfers:
		return "transfers"
	case resourceSchedules:
		return "schedules"
	default:
		return "unknown"
	}
}

type route struct {
	resource resource
	pattern  *regexp.Regexp
}

// routes are tried in order. Nested resources come first since
// /groups/x/transfers would otherwise be claimed by the groups pattern.
var routes = []route{
	{resourceTransfers, regexp.MustCompile(`^/groups/([^/]+)/transfers(?:/([^/]+))?/?$`)},
	{resourceSchedules, regexp.MustCompile(`^/groups/([^/]+)/schedules(?:/([^/]+))?/?$`)},
	{resourceGroups, regexp.MustCompile(`^/groups(?:/([^/]+))?/?$`)},
}

// match is a classified request path. For groups, Group is the item name
// and ID is always empty.
type match struct {
	Resource resource
	Group    string
	ID       string
}

// IsItem reports whether the path addresses a single record rather than a
// collection.
func (m match) IsItem() bool {
	if m.Resource == resourceGroups {
		return m.Group != ""
	}
	return m.ID != ""
}

// matchRoute classifies an escaped request path. Captured segments are
// unescaped, so group names may contain encoded slashes.
func matchRoute(escapedPath string) (match, bool) {
	for _, r := range routes {
		sub := r.pattern.FindStringSubmatch(escapedPath)
		if sub == nil {
			continue
		}

		m := match{Resource: r.resource}
		var err error
		if m.Group, err = url.PathUnescape(sub[1]); err != nil {
			return match{}, false
		}
		if len(sub) > 2 {
			if m.ID, err = url.PathUnescape(sub[2]); err != nil {
				return match{}, false
			}
		}
		return m, true
	}
	return match{}, false
}
