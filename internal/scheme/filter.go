package scheme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"govscheme-workers/internal/models"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterCentral Filter = "central"
	FilterState   Filter = "state"
)

type SortMode string

const (
	SortDefault SortMode = "default"
	SortName    SortMode = "name"
)

var (
	ErrUnknownFilter = errors.New("unknown result filter")
	ErrUnknownSort   = errors.New("unknown sort mode")
)

// EmptyState tells the caller which empty message to show, if any.
type EmptyState string

const (
	EmptyNone   EmptyState = "none"
	EmptyGlobal EmptyState = "global"
	EmptyFilter EmptyState = "filter"
)

// Counts are always taken over the full classified set.
type Counts struct {
	All     int `json:"all"`
	Central int `json:"central"`
	State   int `json:"state"`
}

type View struct {
	Schemes   []models.Scheme `json:"schemes"`
	Counts    Counts          `json:"counts"`
	Filter    Filter          `json:"filter"`
	Sort      SortMode        `json:"sort"`
	Empty     EmptyState      `json:"empty"`
	Suggested Filter          `json:"suggested,omitempty"`
}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCentral, FilterState:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

func ParseSort(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortDefault, nil
	case SortDefault, SortName:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// Summarize counts a classified set by kind.
func Summarize(schemes []models.Scheme) Counts {
	c := Counts{All: len(schemes)}
	for _, s := range schemes {
		switch Kind(s.Type) {
		case KindCentral:
			c.Central++
		case KindState:
			c.State++
		}
	}
	return c
}

// Apply derives the displayed subset. The input must already be classified
// and is never modified.
func Apply(schemes []models.Scheme, filter Filter, mode SortMode) (*View, error) {
	filter, err := ParseFilter(string(filter))
	if err != nil {
		return nil, err
	}
	mode, err = ParseSort(string(mode))
	if err != nil {
		return nil, err
	}

	out := make([]models.Scheme, 0, len(schemes))
	for _, s := range schemes {
		if filter == FilterAll || s.Type == string(filter) {
			out = append(out, s)
		}
	}
	if mode == SortName {
		SortByName(out)
	}

	v := &View{
		Schemes: out,
		Counts:  Summarize(schemes),
		Filter:  filter,
		Sort:    mode,
		Empty:   EmptyNone,
	}
	switch {
	case len(schemes) == 0:
		v.Empty = EmptyGlobal
	case len(out) == 0:
		v.Empty = EmptyFilter
		v.Suggested = suggest(filter, v.Counts)
	}
	return v, nil
}

func suggest(current Filter, c Counts) Filter {
	switch current {
	case FilterCentral:
		if c.State > 0 {
			return FilterState
		}
	case FilterState:
		if c.Central > 0 {
			return FilterCentral
		}
	}
	return FilterAll
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English, collate.IgnoreCase)
)

// SortByName sorts in place, stably, by display name ignoring case.
func SortByName(schemes []models.Scheme) {
	// collate.Collator keeps internal buffers and is not safe for concurrent use.
	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.SliceStable(schemes, func(i, j int) bool {
		return collator.CompareString(schemes[i].DisplayName(), schemes[j].DisplayName()) < 0
	})
}
