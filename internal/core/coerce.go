package core

// coerce.go turns raw cell text into typed values.
//
// Numbers are parsed leniently: the longest numeric prefix wins, so "12abc"
// coerces to 12 and " 3.5" to 3.5. Then the literals True/False, then empty
// text as null, and anything else stays a string.

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	literalTrue  = "True"
	literalFalse = "False"

	// maxMemoEntries caps each memo table; past it results are computed but not stored.
	maxMemoEntries = 1 << 16
)

// memo is a bounded, concurrency-safe string-keyed cache for pure functions.
type memo[T any] struct {
	m    sync.Map
	size atomic.Int64
}

func (c *memo[T]) get(key string, compute func(string) T) T {
	if v, ok := c.m.Load(key); ok {
		return v.(T)
	}
	v := compute(key)
	if c.size.Load() < maxMemoEntries {
		if _, loaded := c.m.LoadOrStore(key, v); !loaded {
			c.size.Add(1)
		}
	}
	return v
}

var coerceMemo memo[Value]

// Coerce converts a raw cell to a typed Value. It never fails.
func Coerce(raw string) Value {
	return coerceMemo.get(raw, coerce)
}

func coerce(raw string) Value {
	if f, ok := parseLooseFloat(raw); ok {
		return Number(f)
	}
	switch raw {
	case literalTrue:
		return Bool(true)
	case literalFalse:
		return Bool(false)
	case "":
		return Null()
	}
	return String(raw)
}

// parseLooseFloat parses the longest leading decimal literal of s after
// leading whitespace, accepting an optional sign, fraction, exponent, and
// the word Infinity. Trailing text is ignored.
func parseLooseFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	if s == "" {
		return 0, false
	}

	i := 0
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	start := i
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	// Exponent only counts when it has at least one digit.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}

	f, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		// Out-of-range literals saturate like they do in other loose parsers.
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return 0, false
		}
	}
	if neg {
		f = -f
	}
	return f, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
