package pkg

// Navigation session wire types shared by the core, the store adapters and the HTTP boundary

// Travel modes commonly found in route segments. The set is not enforced;
// any string coming from the route store is forwarded as is.
const (
	TravelModeWalking = "walking"
	TravelModeBiking  = "biking"
)

// Segment is one travel-mode leg of a route that carries instructions.
// Instructions are opaque to this service and forwarded verbatim.
type Segment struct {
	Type         string `json:"type"`
	Instructions []any  `json:"instructions"`
}

// SessionRecord is the value stored under navigation:session:{sessionId}
type SessionRecord struct {
	RouteID  string         `json:"routeId"`
	Route    map[string]any `json:"route"`
	Segments []Segment      `json:"segments"`
}

// SessionSummary is returned to the caller after a session starts
type SessionSummary struct {
	SessionID string    `json:"sessionId"`
	Segments  []Segment `json:"segments"`
}
