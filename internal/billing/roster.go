package billing

import (
	"regexp"
	"strings"

	"github.com/correcaminos/cuotas/internal/model"
)

// DefaultCategory is assigned to roster entries that carry no explicit
// category.
const DefaultCategory = "Atletismo"

// Member is one enrolled child, resolved to a single activity category.
type Member struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RosterSource is the raw roster data attached to a household. Structured
// records take precedence when any exist; otherwise FreeText is parsed.
// Callers never branch on the shape downstream of ResolveRoster.
type RosterSource struct {
	FreeText string
	Records  []model.MemberRecord
}

// entryRegexp matches "Name (Category)" roster items.
var entryRegexp = regexp.MustCompile(`^([^(]+)\(([^)]+)\)$`)

// ResolveRoster normalizes a roster into an ordered member list. It never
// fails: malformed free-text segments degrade to a member named after the
// trimmed segment with the default category, and empty input yields an
// empty list.
func ResolveRoster(src RosterSource) []Member {
	if len(src.Records) > 0 {
		members := make([]Member, 0, len(src.Records))
		for _, r := range src.Records {
			name := strings.TrimSpace(r.Name)
			if name == "" {
				continue
			}
			category := strings.TrimSpace(r.Category)
			if category == "" {
				category = DefaultCategory
			}
			members = append(members, Member{Name: name, Category: category})
		}
		return members
	}
	return parseFreeText(src.FreeText)
}

func parseFreeText(raw string) []Member {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var members []Member
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if parts := entryRegexp.FindStringSubmatch(item); parts != nil {
			members = append(members, Member{
				Name:     strings.TrimSpace(parts[1]),
				Category: strings.TrimSpace(parts[2]),
			})
			continue
		}
		members = append(members, Member{Name: item, Category: DefaultCategory})
	}
	return members
}

// DisplayString renders members back to the canonical free-text form,
// "Name (Category), Name (Category)". Parsing the result yields the same
// member list.
func DisplayString(members []Member) string {
	parts := make([]string, 0, len(members))
	for _, m := range members {
		parts = append(parts, m.Name+" ("+m.Category+")")
	}
	return strings.Join(parts, ", ")
}
