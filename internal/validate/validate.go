// Package validate checks extension names and release versions against
// the patterns the index accepts.
package validate

import (
	"fmt"
	"regexp"
)

// namePattern: machine names start with a lowercase letter, continue with
// lowercase letters, digits, or underscores, and never end in an
// underscore. Single-character names are not accepted by the index.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$`)

// versionPattern: release versions start with a supported core major
// (3 through 9) followed by either a dotted numeric release or the
// development marker "x" (as in "3.x").
var versionPattern = regexp.MustCompile(`^[3-9]\.(\d+(\.\d+)*|x)$`)

// Name reports whether s is a well-formed extension machine name.
func Name(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("invalid extension name %q: must start with a lowercase letter, contain only lowercase letters, digits, and underscores, and not end in an underscore", s)
	}
	return nil
}

// Version reports whether s is a well-formed release version.
func Version(s string) error {
	if !versionPattern.MatchString(s) {
		return fmt.Errorf("invalid version %q: must start with a supported core major (3-9), e.g. \"8.1.0\" or \"3.x\"", s)
	}
	return nil
}
