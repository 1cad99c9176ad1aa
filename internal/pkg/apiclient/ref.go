package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a related-object reference the store sends either as a primary key
// or as a string representation. A deleted object arrives as null.
type Ref string

// UnmarshalJSON accepts numbers, strings and null
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unexpected reference value %s", data)
		}
		*r = Ref(n.String())
	}
	return nil
}

// String returns the reference as text
func (r Ref) String() string {
	return string(r)
}
