package bot

import (
	"strings"

	"github.com/tidwall/gjson"
)

// parseInputs flattens submitted card inputs into column values. Webex
// sends either an object or a list holding one object.
func parseInputs(raw []byte) map[string]string {
	doc := gjson.ParseBytes(raw)
	if doc.IsArray() {
		doc = doc.Get("0")
	}
	values := map[string]string{}
	doc.ForEach(func(key, value gjson.Result) bool {
		values[key.String()] = strings.TrimSpace(value.String())
		return true
	})
	return values
}
