package util

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatRating formats a rating with one decimal, e.g. "4.5".
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// FormatRatingWithStar formats a rating as "4.5 ★" for display.
func FormatRatingWithStar(rating float64) string {
	return FormatRating(rating) + " ★"
}

// FormatRatingStars formats a 0-5 rating as stars (e.g., "★★★★☆").
func FormatRatingStars(rating float64) string {
	stars := int(math.Round(rating))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatPrice formats an upstream price string as "$12.99".
func FormatPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "$0.00"
	}
	if strings.HasPrefix(price, "$") {
		return price
	}
	return "$" + price
}

// FormatSince renders a load time as "loaded 3 minutes ago", or "" if t is
// zero.
func FormatSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "loaded " + humanize.Time(t)
}

// FormatCount renders "1 meal" / "12 meals" / "1,204 meals".
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}

// IsValidURL reports whether s is an absolute http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseRating parses form input into a rating; anything unparseable is 0.
func ParseRating(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
