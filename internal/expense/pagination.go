package expense

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// ParsePage reads page and limit query values. Missing, malformed and
// non-positive values fall back to the defaults; limit is capped at MaxLimit.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	page = parsePositive(rawPage, DefaultPage)
	limit = min(parsePositive(rawLimit, DefaultLimit), MaxLimit)
	return page, limit
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// totalPages is ceil(total/limit).
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
