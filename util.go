package mojang

import (
	"encoding/json"
	"strings"
)

// BoolPtr is a convenience helper for optional boolean fields.
func BoolPtr(b bool) *bool { return &b }

func decodeJSONString(body string, out any) error {
	return json.NewDecoder(strings.NewReader(body)).Decode(out)
}
