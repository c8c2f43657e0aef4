package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalKey serializes v to JSON with object keys sorted lexicographically
// at every depth, so values with equal fields always produce equal keys
// regardless of struct field or map insertion order.
func CanonicalKey(namespace string, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cache key: %w", err)
	}

	// Round-trip through a generic value: encoding/json writes map keys in sorted order
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to normalize cache key: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cache key: %w", err)
	}

	if namespace == "" {
		return string(canonical), nil
	}
	return namespace + ":" + string(canonical), nil
}
