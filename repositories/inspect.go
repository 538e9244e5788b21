package repositories

import (
	"fmt"
	"strings"
)

// Describe renders a stored value for debugging tools. Index entries carry
// no value and are shown by their key kind.
func Describe(key string, val []byte) (kind string, detail string) {
	kind, _, _ = strings.Cut(key, ":")
	if len(val) == 0 {
		return kind, "index"
	}
	var decoded any
	if err := decode(val, &decoded); err != nil {
		return kind, fmt.Sprintf("%d raw bytes", len(val))
	}
	return kind, fmt.Sprintf("%v", decoded)
}
