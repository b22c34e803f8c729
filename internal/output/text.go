package output

import "fmt"

func Plural(count int, singular string, plural string) string {
	if count != 1 {
		return plural
	}
	return singular
}

// Count phrases a number of things, e.g. "1 document" or "3 documents".
func Count(count int, singular string, plural string) string {
	return fmt.Sprintf("%d %s", count, Plural(count, singular, plural))
}
