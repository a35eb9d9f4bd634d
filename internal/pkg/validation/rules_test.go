package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCourseCode(t *testing.T) {
	valid := []string{"CS101", "MATH2051", "EE42", "  CS101  "}
	for _, code := range valid {
		assert.True(t, IsValidCourseCode(code), "expected %q to be valid", code)
	}

	invalid := []string{"", "cs101", "C101", "CS1", "CS10101", "COMPUTERSCI101", "CS-101", "101CS"}
	for _, code := range invalid {
		assert.False(t, IsValidCourseCode(code), "expected %q to be invalid", code)
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "13:05", "23:59"}
	for _, v := range valid {
		assert.True(t, IsValidClockTime(v), "expected %q to be valid", v)
	}

	invalid := []string{"", "24:00", "9:30", "12:60", "12:5", "noon", "12:00:00"}
	for _, v := range invalid {
		assert.False(t, IsValidClockTime(v), "expected %q to be invalid", v)
	}
}

func TestIsValidDayOfWeek(t *testing.T) {
	for day := 1; day <= 7; day++ {
		assert.True(t, IsValidDayOfWeek(day))
	}
	assert.False(t, IsValidDayOfWeek(0))
	assert.False(t, IsValidDayOfWeek(8))
	assert.False(t, IsValidDayOfWeek(-1))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Data Structures"))
	assert.True(t, IsValidName("Go"))
	assert.False(t, IsValidName("X"))
	assert.False(t, IsValidName("   "))
	assert.False(t, IsValidName(strings.Repeat("a", NameMaxLength+1)))
}
