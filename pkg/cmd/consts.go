package cmd

const (
	RootCmdName  = "addrsuggest"
	RootCmdShort = "NYC address autocomplete backed by the city property dataset"
	RootCmdLong  = `addrsuggest proxies partial addresses to the NYC open-data property dataset
and returns normalized, deduplicated suggestions (BBL, borough, zip, neighborhood, units).`

	ServeCmdName  = "serve"
	ServeCmdShort = "Start the autocomplete HTTP server"
	ServeCmdLong  = `Start the HTTP server exposing GET /api/autocomplete?q=... and GET /healthz.`

	LookupCmdName  = "lookup <query>"
	LookupCmdShort = "Run one autocomplete query and print the JSON response"
	LookupCmdLong  = `Run the same pipeline the server uses for a single query and print the
response to stdout. Useful to check what the dataset returns for an address.`
)
