package meta

import (
	"os"
	"strings"
	"unicode"
)

// expandEnvExpr replaces every ${env.KEY} occurrence with the value of the
// KEY environment variable, empty when unset.  Malformed expressions stay in
// the output as literals.
func expandEnvExpr(value string) string {
	const prefix = "${env."
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		keyStart := i + idx + len(prefix)

		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			// No closing brace, the rest is literal.
			b.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !validEnvKey(key) {
			// Keep the prefix as literal and rescan what follows it, nested
			// expressions after the bad one still expand.
			b.WriteString(value[i+idx : keyStart])
			i = keyStart
			continue
		}
		b.WriteString(os.Getenv(key))
		i = keyStart + keyEnd + 1
	}
	return b.String()
}

// validEnvKey accepts letters, digits and underscores; an empty key expands
// to an empty string rather than failing the whole document.
func validEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
