package cmd

import (
	"errors"
	"io/fs"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
	"github.com/sdvillal/ffb2fs2ffb/pkg/mirror"
)

// Exit codes. A partial import with skipped entries is a success: the
// diagnostics go to stderr, the exit code stays zero.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitFormat   = 2
	ExitIO       = 3
	ExitConflict = 4
)

// ExitCode maps an error from any command to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var formatErr *bookmarks.FormatError
	if errors.As(err, &formatErr) {
		return ExitFormat
	}
	var conflictErr *mirror.DestinationConflict
	if errors.As(err, &conflictErr) {
		return ExitConflict
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ExitIO
	}
	return ExitError
}
