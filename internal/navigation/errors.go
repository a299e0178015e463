package navigation

import "errors"

var (
	// ErrRouteNotFound is returned when no record exists at route:{routeId}.
	ErrRouteNotFound = errors.New("route not found")
	// ErrInvalidRouteFormat is returned when the stored route is not a well-formed object.
	ErrInvalidRouteFormat = errors.New("invalid route format")
	// ErrMissingSegments is returned when the route lacks a usable segments sequence.
	ErrMissingSegments = errors.New("route has no segments")
	// ErrNoNavigableSegments is returned when every segment lacks instructions.
	ErrNoNavigableSegments = errors.New("route has no navigable segments")
	// ErrSessionNotFound is returned when a heartbeat targets a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreUnavailable wraps any failure reported by the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error kinds reported by Kind.
const (
	KindRouteNotFound       = "RouteNotFound"
	KindInvalidRouteFormat  = "InvalidRouteFormat"
	KindMissingSegments     = "MissingSegments"
	KindNoNavigableSegments = "NoNavigableSegments"
	KindSessionNotFound     = "SessionNotFound"
	KindStoreUnavailable    = "StoreUnavailable"
	KindInternal            = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrRouteNotFound, KindRouteNotFound},
	{ErrInvalidRouteFormat, KindInvalidRouteFormat},
	{ErrMissingSegments, KindMissingSegments},
	{ErrNoNavigableSegments, KindNoNavigableSegments},
	{ErrSessionNotFound, KindSessionNotFound},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// Kind maps an error returned by this package to a stable kind name.
// It returns "" for a nil error and KindInternal for anything unrecognised.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
