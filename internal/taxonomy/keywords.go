package taxonomy

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordTableYAML []byte

type keywordTable struct {
	Categories map[string][]string `yaml:"categories"`
}

// KeywordFilter matches a fixed table of domain keyword categories against
// free text. It is a best-effort recall aid for shrinking classifier
// context; it never excludes anything from validation.
type KeywordFilter struct {
	categories []keywordCategory
}

type keywordCategory struct {
	tag   string
	terms []string
}

// NewKeywordFilter loads the embedded keyword table.
func NewKeywordFilter() (*KeywordFilter, error) {
	var table keywordTable
	if err := yaml.Unmarshal(keywordTableYAML, &table); err != nil {
		return nil, fmt.Errorf("taxonomy: parse keyword table: %w", err)
	}
	f := &KeywordFilter{}
	tags := make([]string, 0, len(table.Categories))
	for tag := range table.Categories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		f.categories = append(f.categories, keywordCategory{tag: tag, terms: table.Categories[tag]})
	}
	return f, nil
}

// ExtractKeywords runs every table term against the lower-cased text. A
// matching term contributes both its category tag and the literal term.
// The result is deduplicated and sorted.
func (f *KeywordFilter) ExtractKeywords(text string) []string {
	lowered := strings.ToLower(text)
	seen := map[string]struct{}{}
	for _, cat := range f.categories {
		for _, term := range cat.terms {
			if strings.Contains(lowered, term) {
				seen[cat.tag] = struct{}{}
				seen[term] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for kw := range seen {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// FilterRelevant returns the subset of nodes whose name contains any of the
// given keywords, case-insensitively. No keywords means no matches.
func (f *KeywordFilter) FilterRelevant(nodes []*Node, keywords []string) []*Node {
	if len(keywords) == 0 {
		return nil
	}
	var out []*Node
	for _, n := range nodes {
		name := strings.ToLower(n.Name)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
