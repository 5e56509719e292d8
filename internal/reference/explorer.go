package reference

import (
	"fmt"
	"strings"
)

// ExplorerTab selects which reference list the explorer browses.
type ExplorerTab string

const (
	TabCategories ExplorerTab = "categories"
	TabStates     ExplorerTab = "states"
	TabCentral    ExplorerTab = "central"
)

var defaultVisible = map[ExplorerTab]int{
	TabCategories: 10,
	TabStates:     12,
	TabCentral:    9,
}

type ExplorerQuery struct {
	Tab     ExplorerTab `json:"tab"`
	Filter  string      `json:"filter"`
	ShowAll bool        `json:"showAll"`
}

type ExplorerPage struct {
	Tab       ExplorerTab `json:"tab"`
	Items     []string    `json:"items"`
	Matched   int         `json:"matched"`
	Total     int         `json:"total"`
	Truncated bool        `json:"truncated"`
}

// Explore filters the tab's list by a case-insensitive substring. Without a
// filter or ShowAll only the tab's default number of entries is returned; a
// non-empty filter always shows every match.
func Explore(q ExplorerQuery) (*ExplorerPage, error) {
	if q.Tab == "" {
		q.Tab = TabCategories
	}

	var source []string
	switch q.Tab {
	case TabCategories:
		source = categories
	case TabStates:
		source = StateNames()
	case TabCentral:
		source = ministries
	default:
		return nil, fmt.Errorf("unknown explorer tab %q", q.Tab)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Filter))
	matched := make([]string, 0, len(source))
	for _, name := range source {
		if strings.Contains(strings.ToLower(name), needle) {
			matched = append(matched, name)
		}
	}

	page := &ExplorerPage{
		Tab:     q.Tab,
		Items:   matched,
		Matched: len(matched),
		Total:   len(source),
	}
	showAll := q.ShowAll || needle != ""
	if limit := defaultVisible[q.Tab]; !showAll && len(matched) > limit {
		page.Items = matched[:limit]
		page.Truncated = true
	}
	return page, nil
}
