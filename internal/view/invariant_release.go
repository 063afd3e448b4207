//go:build !viewdebug

package view

// checkPostConditions is a no-op in release builds; see invariant_debug.go.
func checkPostConditions(validated []Event, forgotten map[EventId]struct{}) error {
	return nil
}
