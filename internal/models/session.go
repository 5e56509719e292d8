// internal/models/session.go
package models

import "time"

// View is the screen the session is currently showing.
type View string

const (
	ViewHome       View = "home"
	ViewForm       View = "form"
	ViewLoading    View = "loading"
	ViewResults    View = "results"
	ViewSearch     View = "search"
	ViewAbout      View = "about"
	ViewFAQ        View = "faq"
	ViewDisclaimer View = "disclaimer"
	ViewTerms      View = "terms"
	ViewPrivacy    View = "privacy"
)

var knownViews = map[View]bool{
	ViewHome: true, ViewForm: true, ViewLoading: true, ViewResults: true,
	ViewSearch: true, ViewAbout: true, ViewFAQ: true, ViewDisclaimer: true,
	ViewTerms: true, ViewPrivacy: true,
}

func (v View) Valid() bool {
	return knownViews[v]
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-time, user-facing message.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

type ChatTurn struct {
	Role ChatRole  `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// SessionState is everything one citizen's session knows. It is the single
// source of truth for the workers.
type SessionState struct {
	ID            string       `json:"id"`
	CurrentView   View         `json:"currentView"`
	Results       []Scheme     `json:"results"`
	TotalMatches  int          `json:"totalMatches"`
	UserProfile   *UserProfile `json:"userProfile,omitempty"`
	SearchQuery   string       `json:"searchQuery"`
	SearchResults []Scheme     `json:"searchResults"`
	Language      string       `json:"language"`
	Generation    uint64       `json:"generation"`
	Notice        *Notice      `json:"notice,omitempty"`
	Chat          []ChatTurn   `json:"chat,omitempty"`
	ChatEpoch     uint64       `json:"chatEpoch"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// NewSessionState returns the state of a session nobody has touched yet.
func NewSessionState(id, language string) *SessionState {
	return &SessionState{
		ID:            id,
		CurrentView:   ViewHome,
		Results:       []Scheme{},
		SearchResults: []Scheme{},
		Language:      language,
	}
}

// Clone copies the state deeply enough that mutating the copy's slices,
// profile or notice never touches the original.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.Results = append(make([]Scheme, 0, len(s.Results)), s.Results...)
	out.SearchResults = append(make([]Scheme, 0, len(s.SearchResults)), s.SearchResults...)
	if s.Chat != nil {
		out.Chat = append(make([]ChatTurn, 0, len(s.Chat)), s.Chat...)
	}
	out.UserProfile = s.UserProfile.Clone()
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return &out
}
