package reference

// Categories are the scheme categories shown in the explorer.
var categories = []string{
	"Agriculture, Rural & Environment",
	"Banking, Financial Services & Insurance",
	"Business & Entrepreneurship",
	"Education & Learning",
	"Health & Wellness",
	"Housing & Shelter",
	"Public Safety, Law & Justice",
	"Science, IT & Communications",
	"Skills & Employment",
	"Social Welfare & Empowerment",
	"Sports & Culture",
	"Transport & Infrastructure",
	"Travel & Tourism",
	"Utility & Sanitation",
	"Women and Child",
}

var ministries = []string{
	"Ministry of Agriculture and Farmers Welfare",
	"Ministry of Education",
	"Ministry of Health and Family Welfare",
	"Ministry of Housing and Urban Affairs",
	"Ministry of Rural Development",
	"Ministry of Finance",
	"Ministry of Labour and Employment",
	"Ministry of Skill Development and Entrepreneurship",
	"Ministry of Social Justice and Empowerment",
	"Ministry of Women and Child Development",
	"Ministry of Minority Affairs",
	"Ministry of Tribal Affairs",
	"Ministry of Micro, Small and Medium Enterprises",
	"Ministry of Petroleum and Natural Gas",
	"Ministry of Jal Shakti",
	"Ministry of Electronics and Information Technology",
	"Ministry of Youth Affairs and Sports",
	"Ministry of Consumer Affairs, Food and Public Distribution",
}

// ChatSuggestions are the canned prompts offered by the assistant.
var chatSuggestions = []string{
	"What schemes are available for farmers?",
	"How do I apply for PM Awas Yojana?",
	"Scholarships for students",
	"Health insurance schemes",
}

// SearchSuggestions are offered when a directory search finds nothing.
var searchSuggestions = []string{"farmer", "housing", "health"}

func Categories() []string { return append([]string(nil), categories...) }
func Ministries() []string { return append([]string(nil), ministries...) }
func ChatSuggestions() []string { return append([]string(nil), chatSuggestions...) }
func SearchSuggestions() []string { return append([]string(nil), searchSuggestions...) }

// Enumerations accepted by the profile form.
var (
	Genders          = []string{"male", "female", "other"}
	SocialCategories = []string{"general", "obc", "sc", "st"}
	Occupations      = []string{"farmer", "student", "employed", "self_employed", "unemployed", "daily_wage", "homemaker", "retired"}
	EducationLevels  = []string{"none", "primary", "secondary", "higher_secondary", "graduate", "post_graduate"}
	MaritalStatuses  = []string{"single", "married", "widowed", "divorced"}
)
