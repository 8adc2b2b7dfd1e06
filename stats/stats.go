// Package stats implements ladderwatch.StatEngine by summing skill bonuses
// found in item property text.
package stats

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/ladderwatch"
)

// AllSkills is the name under which "+N to All Skills" bonuses are totalled.
const AllSkills = "All Skills"

// Ensure Engine implements ladderwatch.StatEngine at compile time.
var _ ladderwatch.StatEngine = (*Engine)(nil)

// skillBonus matches "+N to <Skill>" with an optional "(Class Only)" suffix.
var skillBonus = regexp.MustCompile(`^\+(\d+) to ([A-Za-z][A-Za-z' -]*?)(?: \([A-Za-z]+ Only\))?$`)

// nonSkills are "+N to X" targets that are attributes or item stats.
var nonSkills = map[string]bool{
	"strength":       true,
	"dexterity":      true,
	"vitality":       true,
	"energy":         true,
	"life":           true,
	"mana":           true,
	"all attributes": true,
	"attack rating":  true,
	"minimum damage": true,
	"maximum damage": true,
	"damage":         true,
	"defense":        true,
	"light radius":   true,
	"mana per kill":  true,
	"life per kill":  true,
}

// Engine derives per-skill totals from item properties.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// SkillTotals sums every skill bonus across the character's items.
// Results are sorted by skill name; a character without bonuses yields nil.
func (e *Engine) SkillTotals(c *ladderwatch.Character) []ladderwatch.SkillTotal {
	if c == nil {
		return nil
	}

	totals := make(map[string]int)
	for _, item := range c.Items {
		for _, prop := range item.Properties {
			skill, n, ok := parseBonus(prop)
			if !ok {
				continue
			}
			totals[skill] += n
		}
	}
	if len(totals) == 0 {
		return nil
	}

	out := make([]ladderwatch.SkillTotal, 0, len(totals))
	for skill, n := range totals {
		out = append(out, ladderwatch.SkillTotal{Skill: skill, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}

func parseBonus(prop string) (string, int, bool) {
	m := skillBonus.FindStringSubmatch(strings.TrimSpace(prop))
	if m == nil {
		return "", 0, false
	}
	skill := strings.TrimSpace(m[2])
	if nonSkills[strings.ToLower(skill)] {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	if strings.EqualFold(skill, AllSkills) {
		skill = AllSkills
	}
	return skill, n, true
}
