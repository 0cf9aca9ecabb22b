package ids

import "github.com/segmentio/ksuid"

// New returns a sortable opaque identifier used for object keys and
// other non-database identifiers.
func New() string {
	return ksuid.New().String()
}
