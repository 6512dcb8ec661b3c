package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMinLength(t *testing.T) {
	inputs := []string{"", "a", "ab", "abcdefg", "abcdefgh", "ünï", strings.Repeat("x", 20)}
	for _, n := range []int{1, 2, 3, 8, 20} {
		c := MinLength(n)
		for _, s := range inputs {
			assert.Equal(t, len([]rune(s)) >= n, c.ValidText(s), "MinLength(%d).ValidText(%q)", n, s)
		}
	}
}

func TestMinLength_Message(t *testing.T) {
	assert.Equal(t, "Cannot be empty.", MinLength(1).Message())
	assert.Equal(t, "Must be at least 8 characters long.", MinLength(8).Message())
}

func TestContainsUppercase(t *testing.T) {
	c := ContainsUppercase()
	cases := map[string]bool{
		"":          false,
		"abc":       false,
		"123":       false,
		"!@#":       false,
		"éà":        false,
		"abcD":      true,
		"Z":         true,
		"lower1!A2": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, c.ValidText(in), "ContainsUppercase(%q)", in)
	}
	assert.Equal(t, "Must contain at least one capital letter.", c.Message())
}

func TestContainsDigit(t *testing.T) {
	c := ContainsDigit()
	assert.False(t, c.ValidText(""))
	assert.False(t, c.ValidText("abcDEF!"))
	assert.True(t, c.ValidText("abc1"))
	assert.True(t, c.ValidText("0"))
	assert.Equal(t, "Must contain at least one number.", c.Message())
}

func TestContainsSymbol(t *testing.T) {
	c := ContainsSymbol()
	for _, r := range `!@#$%^&*(),.?":{}|<>` {
		assert.True(t, c.ValidText("abc"+string(r)), "symbol %q", r)
	}
	assert.False(t, c.ValidText(""))
	assert.False(t, c.ValidText("abc123"))
	assert.False(t, c.ValidText("under_score-dash+plus"))
	assert.Equal(t, "Must contain at least one symbol.", c.Message())
}

func TestHasValue(t *testing.T) {
	c := HasValue()
	assert.False(t, c.ValidDate(nil))
	assert.True(t, c.ValidDate(date(2024, time.March, 1)))
	assert.Equal(t, "Date cannot be empty.", c.Message())
}

func TestBeforeDate(t *testing.T) {
	d := date(2024, time.March, 10)
	c := BeforeDate(*d)

	assert.False(t, c.ValidDate(nil), "absent date fails closed")
	assert.False(t, c.ValidDate(d), "a date is not strictly before itself")
	assert.True(t, c.ValidDate(date(2024, time.March, 9)))
	assert.False(t, c.ValidDate(date(2024, time.March, 11)))
	assert.Equal(t, "Must be before 10/03/2024", c.Message())
}

func TestAfterDate(t *testing.T) {
	d := date(2024, time.March, 10)
	c := AfterDate(*d)

	assert.False(t, c.ValidDate(nil))
	assert.False(t, c.ValidDate(d))
	assert.True(t, c.ValidDate(date(2024, time.March, 11)))
	assert.False(t, c.ValidDate(date(2024, time.March, 9)))
	assert.Equal(t, "Must be after 10/03/2024", c.Message())
}

func TestDateChecks_IgnoreTimeOfDay(t *testing.T) {
	boundary := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	sameDay := time.Date(2024, time.March, 10, 1, 0, 0, 0, time.FixedZone("X", 3*3600))

	assert.False(t, BeforeDate(boundary).ValidDate(&sameDay))
	assert.False(t, AfterDate(boundary).ValidDate(&sameDay))
}

func TestFamilies(t *testing.T) {
	for _, c := range []Check{MinLength(1), ContainsUppercase(), ContainsDigit(), ContainsSymbol()} {
		assert.Equal(t, FamilyText, c.Family())
		assert.False(t, c.ValidDate(date(2024, 1, 1)), "text check %v must reject dates", c.Kind())
	}
	for _, c := range []Check{HasValue(), BeforeDate(time.Now()), AfterDate(time.Now())} {
		assert.Equal(t, FamilyDate, c.Family())
		assert.False(t, c.ValidText("01/01/2024"), "date check %v must reject text", c.Kind())
	}
}
