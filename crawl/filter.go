package crawl

import "github.com/fwojciec/ladderwatch"

// candidates filters character names down to those worth queueing.
// A name is dropped if it is objectionable, invalid, or known to be non-ladder.
func candidates(names []string, profanity ladderwatch.ProfanityChecker, skip *SkipSet) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if profanity != nil && profanity.IsObjectionable(name) {
			continue
		}
		if !ladderwatch.ValidName(name) {
			continue
		}
		if skip.Contains(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
