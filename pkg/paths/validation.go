package paths

import (
	"strings"
	"unicode"

	"github.com/dotrig/dotrig/pkg/errors"
)

// maxPathLen is PATH_MAX on Linux
const maxPathLen = 4096

// ValidatePath rejects paths no filesystem call should see
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	case strings.IndexByte(path, 0) >= 0:
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	case len(path) > maxPathLen:
		return errors.Newf(errors.ErrInvalidInput, "path exceeds %d bytes", maxPathLen)
	}
	return nil
}

// ValidateTargetName accepts only names that stay a single directory entry
// under both roots: no separators, no . or .., no control characters.
func ValidateTargetName(name string) error {
	fail := func(reason string) error {
		return errors.Newf(errors.ErrInvalidInput, "invalid target name %q: %s", name, reason).
			WithDetail("target", name)
	}

	switch {
	case name == "":
		return errors.New(errors.ErrInvalidInput, "target name cannot be empty")
	case name == "." || name == "..":
		return fail("reserved name")
	case strings.ContainsAny(name, `/\`):
		return fail("contains a path separator")
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return fail("contains control characters")
	}
	return nil
}
