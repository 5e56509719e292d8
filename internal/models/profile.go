// internal/models/profile.go
package models

// UserProfile is the demographic and economic profile collected by the
// multi-step form. Age and AnnualIncome are pointers so that an absent
// value can be told apart from zero.
type UserProfile struct {
	Name          string `json:"name"`
	Age           *int   `json:"age,omitempty"`
	Gender        string `json:"gender"`
	State         string `json:"state"`
	Category      string `json:"category"`
	AnnualIncome  *int64 `json:"annual_income,omitempty"`
	Occupation    string `json:"occupation"`
	Education     string `json:"education,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	IsBPL         bool   `json:"is_bpl"`
	IsFarmer      bool   `json:"is_farmer"`
	IsStudent     bool   `json:"is_student"`
	Disability    bool   `json:"disability"`
	IsMinority    bool   `json:"is_minority"`
}

// RecommendRequest is the body posted to the recommendation endpoint.
type RecommendRequest struct {
	UserProfile
	Language string `json:"language"`
}

// RecommendResponse is the recommendation endpoint's reply.
type RecommendResponse struct {
	Success      bool                   `json:"success"`
	TotalMatches int                    `json:"total_matches"`
	Schemes      []Scheme               `json:"schemes"`
	UserSummary  map[string]interface{} `json:"user_summary,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// ProfileSummary is the non-identifying part of a profile shared with the
// chat assistant and the audit log.
type ProfileSummary struct {
	State      string `json:"state,omitempty"`
	Category   string `json:"category,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Age        int    `json:"age,omitempty"`
}

func (p *UserProfile) Summary() ProfileSummary {
	if p == nil {
		return ProfileSummary{}
	}
	s := ProfileSummary{
		State:      p.State,
		Category:   p.Category,
		Occupation: p.Occupation,
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	return s
}

func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	if p.Age != nil {
		age := *p.Age
		out.Age = &age
	}
	if p.AnnualIncome != nil {
		income := *p.AnnualIncome
		out.AnnualIncome = &income
	}
	return &out
}
