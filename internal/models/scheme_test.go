package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme_DecodeBackendShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantID    SchemeID
		wantScore MatchScore
		wantErr   bool
	}{
		{"numeric id and float score", `{"id": 42, "match_score": 87.6}`, "42", 88, false},
		{"string id and int score", `{"id": "pm-kisan", "match_score": 55}`, "pm-kisan", 55, false},
		{"missing score", `{"id": "x"}`, "x", 0, false},
		{"null score and id", `{"id": null, "match_score": null}`, "", 0, false},
		{"score above range", `{"match_score": 140}`, "", 100, false},
		{"negative score", `{"match_score": -3}`, "", 0, false},
		{"quoted score", `{"match_score": "72"}`, "", 72, false},
		{"garbage score", `{"match_score": "high"}`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scheme
			err := json.Unmarshal([]byte(tt.body), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, s.ID)
			assert.Equal(t, tt.wantScore, s.MatchScore)
		})
	}
}

func TestScheme_EligibilityPassesThrough(t *testing.T) {
	body := `{"name":"A","eligibility":{"min_age":18,"states":["Goa"]}}`
	var s Scheme
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"eligibility":{"min_age":18,"states":["Goa"]}`)
}

func TestScheme_Key(t *testing.T) {
	withID := Scheme{ID: "7", Name: "A"}
	assert.Equal(t, "7", withID.Key())

	a := Scheme{Name: "Ujjwala", Description: "LPG connections"}
	b := Scheme{Name: "Ujjwala", Description: "LPG connections"}
	c := Scheme{Name: "Ujjwala", Description: "LPG refills"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Len(t, a.Key(), 18)
}

func TestScheme_DisplayName(t *testing.T) {
	assert.Equal(t, "Scheme", Scheme{SchemeName: "Scheme", Name: "Name"}.DisplayName())
	assert.Equal(t, "Name", Scheme{Name: "Name"}.DisplayName())
	assert.Equal(t, "", Scheme{}.DisplayName())
}

func TestUserProfile_Summary(t *testing.T) {
	age := 34
	p := &UserProfile{Name: "Asha", Age: &age, State: "Goa", Category: "obc", Occupation: "farmer"}
	assert.Equal(t, ProfileSummary{State: "Goa", Category: "obc", Occupation: "farmer", Age: 34}, p.Summary())

	var nilProfile *UserProfile
	assert.Equal(t, ProfileSummary{}, nilProfile.Summary())
}

func TestRecommendRequest_FlattensProfile(t *testing.T) {
	age := 20
	income := int64(150000)
	req := RecommendRequest{
		UserProfile: UserProfile{Name: "Ravi", Age: &age, AnnualIncome: &income, IsStudent: true},
		Language:    "hi",
	}
	out, err := json.Marshal(req)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "hi", m["language"])
	assert.Equal(t, float64(20), m["age"])
	assert.Equal(t, float64(150000), m["annual_income"])
	assert.Equal(t, true, m["is_student"])
}
