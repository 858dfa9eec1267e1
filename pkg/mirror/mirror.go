// Package mirror maps a bookmark node tree onto a directory hierarchy and
// back: one directory per container, one marker file per bookmark or
// separator. Sibling order is carried in an explicit order-key filename
// prefix because directory listing order is not trustworthy.
package mirror

import "fmt"

// Marker file naming. The container record sits inside its directory under
// a fixed name so the directory itself keeps a human-friendly name.
const (
	BookmarkExt       = ".ffurl"
	SeparatorExt      = ".ffsep"
	ContainerInfoName = "__info__.ffcontainer"
)

// StrayPolicy decides what happens to directories found directly at the
// first level of the mirror that are not one of the recognized roots. The
// browser cannot represent new first-level containers, so they are either
// folded into the unfiled root or the import is rejected.
type StrayPolicy string

const (
	StrayFoldIntoUnfiled StrayPolicy = "unfiled"
	StrayReject          StrayPolicy = "reject"
)

// Valid reports whether p names a known policy.
func (p StrayPolicy) Valid() bool {
	return p == StrayFoldIntoUnfiled || p == StrayReject
}

// DestinationConflict reports an export destination that already holds
// content while no overwrite was requested.
type DestinationConflict struct {
	Dir string
}

func (e *DestinationConflict) Error() string {
	return fmt.Sprintf("destination %s already contains entries (use overwrite to replace)", e.Dir)
}
