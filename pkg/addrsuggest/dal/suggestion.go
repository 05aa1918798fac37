package dal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Suggestion defines one address returned to the autocomplete widget
type Suggestion struct {
	BBL          string `json:"bbl"`
	Address      string `json:"address"`
	Borough      string `json:"borough"`
	Zipcode      string `json:"zipcode"`
	Neighborhood string `json:"neighborhood"`
	Units        int    `json:"units"`
}

// SuggestionResponse defines the HTTP response struct
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// NewSuggestionResponse never carries a nil slice, so the key always encodes as an array.
func NewSuggestionResponse(suggestions []Suggestion) SuggestionResponse {
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return SuggestionResponse{Suggestions: suggestions}
}

// Record is one row of the property dataset as selected by the lookups
type Record struct {
	BBL      Text `json:"bbl"`
	Address  Text `json:"address"`
	Borough  Text `json:"borough"`
	Zipcode  Text `json:"zipcode"`
	UnitsRes Text `json:"unitsres"`
}

// Text holds a dataset value that may arrive as a JSON string or a JSON number.
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("unsupported dataset value %s", b)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}
