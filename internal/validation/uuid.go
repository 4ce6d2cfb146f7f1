// Package validation contains small format checks shared by the gateway.
package validation

import "regexp"

// UUID v4-style: 8-4-4-4-12 hex digits. Outlet and menu item ids sent
// upstream must be full UUIDs.
var uuidRegexp = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func IsUUID(s string) bool {
	return uuidRegexp.MatchString(s)
}
