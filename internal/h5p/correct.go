package h5p

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// leadingInt reads s the way a loose integer cast does: optional leading
// whitespace, then the longest numeric prefix. The prefix may carry a
// fraction and an exponent ("1e1" is 10, "0.3e1" is 3); the value is
// truncated toward zero and clamped to the int range. Anything without a
// numeric prefix is 0. clean is false when s carried anything besides a plain
// integer (surrounding spaces aside).
func leadingInt(s string) (n int, clean bool) {
	t := strings.TrimLeft(s, " \t\n\r\v\f")
	end := numericPrefix(t)
	if end == 0 {
		return 0, false
	}
	num := t[:end]
	clean = strings.TrimSpace(t[end:]) == "" && !strings.ContainsAny(num, ".eE")

	f, err := strconv.ParseFloat(num, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, clean
	case f <= math.MinInt:
		return math.MinInt, clean
	}
	if clean {
		// exact for integers beyond float precision
		if v, err := strconv.Atoi(num); err == nil {
			return v, true
		}
	}
	return int(f), clean
}

// numericPrefix returns the length of the numeric literal at the start of t:
// sign, digits, optional fraction, optional exponent with at least one digit.
func numericPrefix(t string) int {
	i := 0
	if i < len(t) && (t[i] == '+' || t[i] == '-') {
		i++
	}
	intStart := i
	for i < len(t) && isDigit(t[i]) {
		i++
	}
	digits := i - intStart
	if i < len(t) && t[i] == '.' {
		j := i + 1
		for j < len(t) && isDigit(t[j]) {
			j++
		}
		if frac := j - i - 1; digits > 0 || frac > 0 {
			digits += frac
			i = j
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(t) && (t[i] == 'e' || t[i] == 'E') {
		j := i + 1
		if j < len(t) && (t[j] == '+' || t[j] == '-') {
			j++
		}
		k := j
		for k < len(t) && isDigit(t[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
