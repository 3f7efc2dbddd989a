package config

import (
	"fmt"
	"sort"
	"strings"
)

// Require reports every env key whose value is empty. Keys are listed in a
// stable order so the startup error is the same across restarts.
func Require(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
}
