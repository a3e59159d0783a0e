package printcart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Body is the raw content of a successful response. Decoding into typed
// structures is left to the caller.
type Body []byte

// IsEmpty reports whether the body has no content.
func (b Body) IsEmpty() bool {
	return len(bytes.TrimSpace(b)) == 0
}

// String returns the body as a string.
func (b Body) String() string {
	return string(b)
}

// Decode unmarshals the JSON body into v.
func (b Body) Decode(v any) error {
	if b.IsEmpty() {
		return ErrEmptyBody
	}

	err := json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Get returns the value at a gjson path, e.g. "data.0.id".
func (b Body) Get(path string) gjson.Result {
	return gjson.GetBytes(b, path)
}
