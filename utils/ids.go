package utils

import (
	"strconv"
	"strings"
)

// ParseID reads a positive decimal id, tolerating surrounding whitespace,
// a leading plus sign and leading zeros.
func ParseID(raw string) (uint, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "+")
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
