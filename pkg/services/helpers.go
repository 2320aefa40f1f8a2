package services

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

/*
Slugify turns a title into a URL-safe slug: "Smith & Jones Wedding" becomes
"smith-jones-wedding".
*/
func Slugify(value string) string {
	result := nonSlugChars.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(result, "-")
}

func nullableID(id uint) any {
	if id == 0 {
		return nil
	}

	return id
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
