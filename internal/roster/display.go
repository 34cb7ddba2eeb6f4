package roster

import (
	"regexp"
	"strings"
)

var displaySuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i) - SEA$`),
	regexp.MustCompile(`(?i) - SHOPPING$`),
	regexp.MustCompile(`(?i) OFFICIEL$`),
	regexp.MustCompile(`\(interne\)`),
}

// DisplayName strips channel and ownership markers from a client name. The
// raw client string remains the identity key everywhere else.
func DisplayName(client string) string {
	name := client
	for _, re := range displaySuffixes {
		name = re.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}
