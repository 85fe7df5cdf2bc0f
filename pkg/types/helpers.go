package types

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"reflect"
	"time"
)

// GenerateExecutionID creates a unique execution identifier. Uses
// crypto/rand for cryptographically secure random ids.
// Format: 16 hex characters (8 bytes) for balance between uniqueness and
// readability.
func GenerateExecutionID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("exec_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

// ValueDepth calculates the nesting depth of a resolved value, used by the
// compiler and lifecycle runtime to enforce MaxContextDepth.
func ValueDepth(value any) int {
	if value == nil {
		return 0
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Map:
		maxDepth := 0
		iter := v.MapRange()
		for iter.Next() {
			if d := ValueDepth(iter.Value().Interface()); d > maxDepth {
				maxDepth = d
			}
		}
		return 1 + maxDepth
	case reflect.Slice, reflect.Array:
		maxDepth := 0
		for i := 0; i < v.Len(); i++ {
			if d := ValueDepth(v.Index(i).Interface()); d > maxDepth {
				maxDepth = d
			}
		}
		return 1 + maxDepth
	default:
		return 1
	}
}
