package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const uniqueIDDateFormat = "20060102"

var uniqueIDPattern = regexp.MustCompile(`^JOB-\d{8}-[0-9A-F]{8}$`)

// NewUniqueID mints a stable job identifier of the form JOB-YYYYMMDD-XXXXXXXX,
// where the suffix is eight uppercase hex characters. Assigned once at job
// creation and never rewritten.
func NewUniqueID(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("JOB-%s-%s", t.Format(uniqueIDDateFormat), suffix)
}

// IsBlankID reports whether a sheet-provided unique id should be treated as
// absent. Spreadsheet round-trips through pandas-style tooling leave the
// literal string "nan" in empty cells.
func IsBlankID(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan")
}

// ValidUniqueID reports whether s matches the generated identifier format.
func ValidUniqueID(s string) bool {
	return uniqueIDPattern.MatchString(s)
}
