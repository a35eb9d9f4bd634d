package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Course codes: 2-8 uppercase letters followed by 2-4 digits, e.g. CS101, MATH2051
	CourseCodePattern = `^[A-Z]{2,8}\d{2,4}$`

	// Schedule times use 24h HH:MM
	ClockTimePattern = `^([01]\d|2[0-3]):[0-5]\d$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 200
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseCode *regexp.Regexp
	ClockTime  *regexp.Regexp
}{
	CourseCode: regexp.MustCompile(CourseCodePattern),
	ClockTime:  regexp.MustCompile(ClockTimePattern),
}

// IsValidCourseCode reports whether code matches the course code format.
func IsValidCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(strings.TrimSpace(code))
}

// IsValidClockTime reports whether s is a 24h HH:MM time.
func IsValidClockTime(s string) bool {
	return CompiledPatterns.ClockTime.MatchString(s)
}

// IsValidDayOfWeek reports whether day is in the ISO range 1 (Monday) to 7 (Sunday).
func IsValidDayOfWeek(day int) bool {
	return day >= 1 && day <= 7
}

// IsValidName reports whether a display name falls within the accepted length bounds.
func IsValidName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= NameMinLength && n <= NameMaxLength
}
