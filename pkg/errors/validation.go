package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ValidateFilePath validates a user-supplied input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// Absolute paths are allowed; the CLI reads local files on behalf of the user.
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateStoreID validates a run identifier received over the HTTP API.
// Identifiers become file names in the file store, so separators and
// traversal sequences are rejected.
func ValidateStoreID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "id contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id contains invalid characters")
		}
	}
	return nil
}

// ValidateEdge checks one interaction edge against a graph of n nodes.
// row is the 1-based source row used in the message; pass 0 when the edge
// does not come from a table.
func ValidateEdge(a, b, n, row int) error {
	where := ""
	if row > 0 {
		where = "row " + strconv.Itoa(row) + ": "
	}
	if a < 0 || b < 0 {
		return New(ErrCodeMalformedInput, "%snegative node index (%d,%d)", where, a, b)
	}
	if a >= n || b >= n {
		return New(ErrCodeMalformedInput, "%snode index out of range (%d,%d) for %d nodes", where, a, b, n)
	}
	if a == b {
		return New(ErrCodeMalformedInput, "%sself-loop on node %d", where, a)
	}
	return nil
}

// ValidateScaler checks an acceptance threshold factor. Zero means "use the
// topology default" and is accepted.
func ValidateScaler(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be a finite non-negative number, got %v", name, v)
	}
	return nil
}
