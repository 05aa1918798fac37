package dal

var boroughCodes = map[string]string{
	"MN": "Manhattan",
	"BX": "Bronx",
	"BK": "Brooklyn",
	"QN": "Queens",
	"SI": "Staten Island",
	"1":  "Manhattan",
	"2":  "Bronx",
	"3":  "Brooklyn",
	"4":  "Queens",
	"5":  "Staten Island",
}

// BoroughName resolves a dataset borough code. Unknown codes are returned as is.
func BoroughName(code string) string {
	if name, ok := boroughCodes[code]; ok {
		return name
	}
	return code
}
