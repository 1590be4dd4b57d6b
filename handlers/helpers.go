package handlers

import "strconv"

// parseID converts a path parameter to a record id; anything that is
// not a positive integer cannot resolve to a row.
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
