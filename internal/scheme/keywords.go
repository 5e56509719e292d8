package scheme

// KeywordTableVersion identifies the keyword tables below. Bump it whenever a
// table changes so that classification results can be traced to a version.
const KeywordTableVersion = "2024.1"

// KeywordTables holds the lowercase fragments scanned by the classifier.
type KeywordTables struct {
	Version string
	State   []string
	Central []string
}

var stateGeneric = []string{
	"state",
	"pradesh",
	"rajya",
	"mukhyamantri",
	"cm ",
	"chief minister",
	"state government",
	"state govt",
}

var stateNames = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh",
	"goa", "gujarat", "haryana", "himachal pradesh", "jammu and kashmir",
	"jharkhand", "karnataka", "kerala", "madhya pradesh", "maharashtra",
	"manipur", "meghalaya", "mizoram", "nagaland", "odisha", "punjab",
	"rajasthan", "sikkim", "tamil nadu", "telangana", "tripura",
	"uttar pradesh", "uttarakhand", "west bengal",
}

var unionTerritoryNames = []string{
	"andaman and nicobar", "chandigarh", "dadra and nagar haveli",
	"daman and diu", "delhi", "ladakh", "lakshadweep", "puducherry",
}

var centralGeneric = []string{
	"pradhan mantri",
	"pm ",
	"pm-",
	"national",
	"central",
	"bharat",
	"india",
	"government of india",
	"goi",
	"ministry of",
	"union",
	"centrally sponsored",
}

var centralFlagships = []string{
	"ayushman", "jan dhan", "mudra", "ujjwala", "swachh", "digital india",
	"make in india", "skill india", "atal", "nehru", "gandhi", "indira", "rajiv",
}

// DefaultKeywords returns the built-in tables.
func DefaultKeywords() KeywordTables {
	state := make([]string, 0, len(stateGeneric)+len(stateNames)+len(unionTerritoryNames))
	state = append(state, stateGeneric...)
	state = append(state, stateNames...)
	state = append(state, unionTerritoryNames...)

	central := make([]string, 0, len(centralGeneric)+len(centralFlagships))
	central = append(central, centralGeneric...)
	central = append(central, centralFlagships...)

	return KeywordTables{
		Version: KeywordTableVersion,
		State:   state,
		Central: central,
	}
}
