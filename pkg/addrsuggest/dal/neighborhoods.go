package dal

var zipNeighborhoods = map[string]string{
	// Manhattan
	"10001": "Chelsea",
	"10002": "Lower East Side",
	"10003": "East Village",
	"10004": "Financial District",
	"10005": "Financial District",
	"10006": "Financial District",
	"10007": "Tribeca",
	"10009": "East Village",
	"10010": "Gramercy",
	"10011": "Chelsea",
	"10012": "SoHo",
	"10013": "Tribeca",
	"10014": "West Village",
	"10016": "Murray Hill",
	"10017": "Midtown East",
	"10018": "Garment District",
	"10019": "Hell's Kitchen",
	"10020": "Midtown",
	"10021": "Upper East Side",
	"10022": "Midtown East",
	"10023": "Upper West Side",
	"10024": "Upper West Side",
	"10025": "Upper West Side",
	"10026": "Harlem",
	"10027": "Harlem",
	"10028": "Upper East Side",
	"10029": "East Harlem",
	"10030": "Harlem",
	"10031": "Hamilton Heights",
	"10032": "Washington Heights",
	"10033": "Washington Heights",
	"10034": "Inwood",
	"10035": "East Harlem",
	"10036": "Midtown West",
	"10037": "Harlem",
	"10038": "Financial District",
	"10039": "Harlem",
	"10040": "Washington Heights",
	"10044": "Roosevelt Island",
	"10065": "Upper East Side",
	"10069": "Upper West Side",
	"10075": "Upper East Side",
	"10128": "Upper East Side",
	"10280": "Battery Park City",
	"10282": "Battery Park City",
	// Bronx
	"10451": "Concourse",
	"10452": "Highbridge",
	"10453": "Morris Heights",
	"10454": "Mott Haven",
	"10455": "Longwood",
	"10456": "Morrisania",
	"10457": "Tremont",
	"10458": "Fordham",
	"10459": "Longwood",
	"10460": "West Farms",
	"10461": "Westchester Square",
	"10462": "Parkchester",
	"10463": "Kingsbridge",
	"10464": "City Island",
	"10465": "Throgs Neck",
	"10466": "Wakefield",
	"10467": "Norwood",
	"10468": "University Heights",
	"10469": "Williamsbridge",
	"10470": "Woodlawn",
	"10471": "Riverdale",
	"10472": "Soundview",
	"10473": "Castle Hill",
	"10474": "Hunts Point",
	"10475": "Co-op City",
	// Brooklyn
	"11201": "Brooklyn Heights",
	"11203": "East Flatbush",
	"11204": "Bensonhurst",
	"11205": "Fort Greene",
	"11206": "Williamsburg",
	"11207": "East New York",
	"11208": "Cypress Hills",
	"11209": "Bay Ridge",
	"11210": "Flatlands",
	"11211": "Williamsburg",
	"11212": "Brownsville",
	"11213": "Crown Heights",
	"11214": "Bath Beach",
	"11215": "Park Slope",
	"11216": "Bedford-Stuyvesant",
	"11217": "Boerum Hill",
	"11218": "Kensington",
	"11219": "Borough Park",
	"11220": "Sunset Park",
	"11221": "Bushwick",
	"11222": "Greenpoint",
	"11223": "Gravesend",
	"11224": "Coney Island",
	"11225": "Crown Heights",
	"11226": "Flatbush",
	"11228": "Dyker Heights",
	"11229": "Sheepshead Bay",
	"11230": "Midwood",
	"11231": "Carroll Gardens",
	"11232": "Sunset Park",
	"11233": "Bedford-Stuyvesant",
	"11234": "Marine Park",
	"11235": "Brighton Beach",
	"11236": "Canarsie",
	"11237": "Bushwick",
	"11238": "Prospect Heights",
	"11239": "Starrett City",
	"11249": "Williamsburg",
	// Queens
	"11101": "Long Island City",
	"11102": "Astoria",
	"11103": "Astoria",
	"11104": "Sunnyside",
	"11105": "Astoria",
	"11106": "Astoria",
	"11354": "Flushing",
	"11355": "Flushing",
	"11356": "College Point",
	"11357": "Whitestone",
	"11358": "Auburndale",
	"11360": "Bayside",
	"11361": "Bayside",
	"11362": "Little Neck",
	"11363": "Douglaston",
	"11364": "Oakland Gardens",
	"11365": "Fresh Meadows",
	"11366": "Fresh Meadows",
	"11367": "Kew Gardens Hills",
	"11368": "Corona",
	"11369": "East Elmhurst",
	"11370": "Jackson Heights",
	"11372": "Jackson Heights",
	"11373": "Elmhurst",
	"11374": "Rego Park",
	"11375": "Forest Hills",
	"11377": "Woodside",
	"11378": "Maspeth",
	"11379": "Middle Village",
	"11385": "Ridgewood",
	"11411": "Cambria Heights",
	"11412": "St. Albans",
	"11413": "Springfield Gardens",
	"11414": "Howard Beach",
	"11415": "Kew Gardens",
	"11416": "Ozone Park",
	"11417": "Ozone Park",
	"11418": "Richmond Hill",
	"11419": "South Richmond Hill",
	"11420": "South Ozone Park",
	"11421": "Woodhaven",
	"11422": "Rosedale",
	"11423": "Hollis",
	"11426": "Bellerose",
	"11427": "Queens Village",
	"11428": "Queens Village",
	"11429": "Queens Village",
	"11432": "Jamaica",
	"11433": "Jamaica",
	"11434": "Jamaica",
	"11435": "Briarwood",
	"11436": "South Jamaica",
	"11691": "Far Rockaway",
	"11692": "Arverne",
	"11693": "Broad Channel",
	"11694": "Rockaway Park",
	"11697": "Breezy Point",
	// Staten Island
	"10301": "St. George",
	"10302": "Port Richmond",
	"10303": "Mariners Harbor",
	"10304": "Stapleton",
	"10305": "Rosebank",
	"10306": "New Dorp",
	"10307": "Tottenville",
	"10308": "Great Kills",
	"10309": "Charleston",
	"10310": "West Brighton",
	"10312": "Eltingville",
	"10314": "Bulls Head",
}

// Neighborhood resolves a zip code to its neighborhood name, or "" when unknown.
func Neighborhood(zipcode string) string {
	return zipNeighborhoods[zipcode]
}
