package value

import "strconv"

// formatNumber renders a float64 the way dlox's numbers print: integral
// values print without a trailing ".0" (so `print 1+2*3;` prints "7",
// not "7.0"), matching spec.md §8's end-to-end scenarios.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
