package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

func prettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}

// splitObjectValue splits "Object=value" on the first '='. The object
// part must be a bare name, so a condition like "Name = 'x'" without an
// object prefix is rejected.
func splitObjectValue(s string) (string, string, error) {
	object, value, ok := strings.Cut(s, "=")
	if !ok || object == "" || strings.ContainsAny(object, " \t\n'\"()") {
		return "", "", fmt.Errorf("expected <object>=<value>, got %q", s)
	}
	return object, value, nil
}
