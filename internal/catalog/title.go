package catalog

import (
	"strconv"
	"strings"
)

// SplitTitleYear extracts a trailing 4-digit parenthesized year from a display
// title like "Toy Story (1995)". It returns the title with exactly one
// trailing " (YYYY)" suffix removed, the year, and whether a year was found.
// When no year is present the title is returned unchanged. Only the final
// parenthetical group is considered, so "Seven (a.k.a. Se7en) (1995)" yields
// "Seven (a.k.a. Se7en)" and 1995. The "(YYYY)" must end the string; a title
// with trailing whitespace stays year-less.
func SplitTitleYear(title string) (string, int, bool) {
	if !strings.HasSuffix(title, ")") {
		return title, 0, false
	}
	open := strings.LastIndex(title, "(")
	if open < 0 {
		return title, 0, false
	}
	digits := title[open+1 : len(title)-1]
	if len(digits) != 4 {
		return title, 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return title, 0, false
		}
	}
	year, err := strconv.Atoi(digits)
	if err != nil || year == 0 {
		return title, 0, false
	}
	clean := strings.TrimRight(title[:open], " ")
	return clean, year, true
}
