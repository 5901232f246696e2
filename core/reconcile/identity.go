package reconcile

import (
	"regexp"
	"strings"
)

var (
	placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)
	separatorRun       = regexp.MustCompile(`/+`)
)

// Normalize builds the join key for an endpoint from its method and path.
// It never fails: an empty method is treated as GET.
//
//	Normalize("get", "/users/{id}//") == "GET:/users/:id"
func Normalize(method, path string) string {
	if method == "" {
		method = "GET"
	}
	p := placeholderPattern.ReplaceAllString(path, ":$1")
	p = separatorRun.ReplaceAllString(p, "/")
	p = strings.TrimSuffix(p, "/")
	return strings.ToUpper(method) + ":" + p
}

// EndpointID returns the identity of ep. An explicit ID always wins.
func EndpointID(ep Endpoint) string {
	if ep.ID != "" {
		return ep.ID
	}
	return Normalize(ep.Method, ep.Path)
}

// Tag returns a copy of ep with its ID filled in.
func Tag(ep Endpoint) Endpoint {
	ep.ID = EndpointID(ep)
	return ep
}

// idSet indexes endpoints by identity.
func idSet(eps []Endpoint) map[string]struct{} {
	set := make(map[string]struct{}, len(eps))
	for _, ep := range eps {
		set[EndpointID(ep)] = struct{}{}
	}
	return set
}
