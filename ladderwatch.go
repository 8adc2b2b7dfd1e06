// Package ladderwatch ingests ladder characters from a third-party game API.
// It discovers online accounts, filters out characters that are not worth
// fetching, and forwards qualifying character records to a storage sink while
// staying inside the upstream's politeness budget of one request per second.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, bloom/).
package ladderwatch

import "strings"

// ValidName reports whether an account or character name is usable.
// Names must contain something other than whitespace.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}
