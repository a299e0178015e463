package navigation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"navsession/pkg"

	"github.com/bytedance/sonic"
)

// codec keeps numbers as json.Number so opaque instruction payloads survive a
// decode/encode round trip without float rounding.
var codec = sonic.Config{
	UseNumber:      true,
	CopyString:     true,
	ValidateString: true,
}.Froze()

// ParseRoute decodes a route blob read from the route store.
// Anything that does not decode to a JSON object is ErrInvalidRouteFormat.
func ParseRoute(raw []byte) (map[string]any, error) {
	var decoded any
	if err := codec.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRouteFormat, err)
	}

	route, ok := decoded.(map[string]any)
	if !ok || route == nil {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrInvalidRouteFormat, decoded)
	}
	return route, nil
}

// Extract returns the segments of route that carry instructions, in route order.
func Extract(route any) ([]pkg.Segment, error) {
	obj, ok := route.(map[string]any)
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrInvalidRouteFormat, route)
	}

	rawSegments, ok := obj["segments"].([]any)
	if !ok {
		return nil, ErrMissingSegments
	}

	segments := make([]pkg.Segment, 0, len(rawSegments))
	for i, raw := range rawSegments {
		seg, ok := raw.(map[string]any)
		if !ok || seg == nil {
			return nil, fmt.Errorf("%w: segment %d is not an object", ErrMissingSegments, i)
		}

		instructions, err := segmentInstructions(seg, i)
		if err != nil {
			return nil, err
		}
		if len(instructions) == 0 {
			continue
		}

		travelMode, err := segmentType(seg, i)
		if err != nil {
			return nil, err
		}

		segments = append(segments, pkg.Segment{
			Type:         travelMode,
			Instructions: instructions,
		})
	}

	if len(segments) == 0 {
		return nil, ErrNoNavigableSegments
	}
	return segments, nil
}

func segmentInstructions(seg map[string]any, index int) ([]any, error) {
	raw, present := seg["instructions"]
	if !present || falsy(raw) {
		return nil, nil
	}
	instructions, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: segment %d instructions is %T, not a list", ErrInvalidRouteFormat, index, raw)
	}
	return instructions, nil
}

// falsy reports whether v is null, false, zero or the empty string.
func falsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		return err == nil && f == 0
	case float64:
		return val == 0
	case int:
		return val == 0
	}
	return false
}

func segmentType(seg map[string]any, index int) (string, error) {
	raw, present := seg["type"]
	if !present || raw == nil {
		return "", nil
	}
	travelMode, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: segment %d type is %T, not a string", ErrInvalidRouteFormat, index, raw)
	}
	return travelMode, nil
}
