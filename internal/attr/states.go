package attr

import "strings"

// stateNames maps USPS abbreviations to full names. Includes DC, the
// territories and the military mail codes that show up in license columns.
var stateNames = map[string]string{
	"AL": "Alabama",
	"AK": "Alaska",
	"AZ": "Arizona",
	"AR": "Arkansas",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DE": "Delaware",
	"DC": "District of Columbia",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"IA": "Iowa",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"ME": "Maine",
	"MD": "Maryland",
	"MA": "Massachusetts",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MS": "Mississippi",
	"MO": "Missouri",
	"MT": "Montana",
	"NE": "Nebraska",
	"NV": "Nevada",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NY": "New York",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VT": "Vermont",
	"VA": "Virginia",
	"WA": "Washington",
	"WV": "West Virginia",
	"WI": "Wisconsin",
	"WY": "Wyoming",
	"AS": "American Samoa",
	"GU": "Guam",
	"MP": "Northern Mariana Islands",
	"PR": "Puerto Rico",
	"VI": "Virgin Islands",
	"FM": "Federated States of Micronesia",
	"MH": "Marshall Islands",
	"PW": "Palau",
	"AA": "Armed Forces Americas",
	"AE": "Armed Forces Europe",
	"AP": "Armed Forces Pacific",
}

// stateAbbrevs is the reverse of stateNames, keyed by lower-cased full name.
var stateAbbrevs = func() map[string]string {
	m := make(map[string]string, len(stateNames))
	for abbr, name := range stateNames {
		m[strings.ToLower(name)] = abbr
	}
	return m
}()

func cleanState(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
}

// IsStateAbbrev reports whether s is a known two-letter state code.
// Periods are ignored, so "N.Y." counts.
func IsStateAbbrev(s string) bool {
	s = cleanState(s)
	if len(s) != 2 {
		return false
	}
	_, ok := stateNames[strings.ToUpper(s)]
	return ok
}

// StateFullName returns the full name for an abbreviation. Anything that is
// not a known abbreviation is returned trimmed and unchanged.
func StateFullName(s string) string {
	if IsStateAbbrev(s) {
		return stateNames[strings.ToUpper(cleanState(s))]
	}
	return strings.TrimSpace(s)
}

// StateAbbrev returns the two-letter code for a full state name. Known
// abbreviations pass through upper-cased; unknown names return "".
func StateAbbrev(s string) string {
	if IsStateAbbrev(s) {
		return strings.ToUpper(cleanState(s))
	}
	return stateAbbrevs[strings.ToLower(strings.TrimSpace(s))]
}
