package dashboard

import (
	"fmt"
	"math"
	"strings"
)

// NotAvailable is shown when an improvement cannot be computed
const NotAvailable = "N/A"

// Improvement returns the relative speedup of optimized over basic as a
// percentage with one decimal, e.g. Improvement(100, 25) == "75.0".
// A zero basic time or a non-finite result yields NotAvailable. Slower
// optimized runs produce negative values.
func Improvement(basic, optimized float64) string {
	if basic == 0 {
		return NotAvailable
	}
	pct := (basic - optimized) / basic * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return NotAvailable
	}
	s := fmt.Sprintf("%.1f", pct)
	if s == "-0.0" {
		s = "0.0"
	}
	return s
}

// ClampUserID parses the leading integer of s and clamps it to at least 1.
// "12abc" is 12, "3.7" is 3; empty, non-numeric, zero and negative input
// all become 1.
func ClampUserID(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 1
	}

	n := 0
	for _, c := range s[digitsStart:end] {
		d := int(c - '0')
		if n > (math.MaxInt32-d)/10 {
			n = math.MaxInt32
			break
		}
		n = n*10 + d
	}
	if s[0] == '-' || n < 1 {
		return 1
	}
	return n
}
