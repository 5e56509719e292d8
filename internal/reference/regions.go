package reference

import "strings"

type RegionKind string

const (
	RegionState          RegionKind = "state"
	RegionUnionTerritory RegionKind = "union_territory"
)

type Region struct {
	Name string     `json:"name"`
	Kind RegionKind `json:"kind"`
}

// Order matches the profile form's drop-down.
var regions = []Region{
	{"Andhra Pradesh", RegionState},
	{"Arunachal Pradesh", RegionState},
	{"Assam", RegionState},
	{"Bihar", RegionState},
	{"Chhattisgarh", RegionState},
	{"Delhi", RegionUnionTerritory},
	{"Goa", RegionState},
	{"Gujarat", RegionState},
	{"Haryana", RegionState},
	{"Himachal Pradesh", RegionState},
	{"Jammu and Kashmir", RegionUnionTerritory},
	{"Jharkhand", RegionState},
	{"Karnataka", RegionState},
	{"Kerala", RegionState},
	{"Ladakh", RegionUnionTerritory},
	{"Madhya Pradesh", RegionState},
	{"Maharashtra", RegionState},
	{"Manipur", RegionState},
	{"Meghalaya", RegionState},
	{"Mizoram", RegionState},
	{"Nagaland", RegionState},
	{"Odisha", RegionState},
	{"Punjab", RegionState},
	{"Rajasthan", RegionState},
	{"Sikkim", RegionState},
	{"Tamil Nadu", RegionState},
	{"Telangana", RegionState},
	{"Tripura", RegionState},
	{"Uttar Pradesh", RegionState},
	{"Uttarakhand", RegionState},
	{"West Bengal", RegionState},
	{"Puducherry", RegionUnionTerritory},
	{"Chandigarh", RegionUnionTerritory},
	{"Andaman and Nicobar Islands", RegionUnionTerritory},
	{"Dadra and Nagar Haveli and Daman and Diu", RegionUnionTerritory},
	{"Lakshadweep", RegionUnionTerritory},
}

// Regions returns the 36 states and union territories.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// StateNames returns region names in form order.
func StateNames() []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = r.Name
	}
	return out
}

// IsKnownState reports whether name is one of the 36 regions, ignoring case.
func IsKnownState(name string) bool {
	name = strings.TrimSpace(name)
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}
