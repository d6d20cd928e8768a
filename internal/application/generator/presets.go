package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Presets are the bulk sizes offered by the hosts
var Presets = []int{500, 1000, 5000, 10000}

// MaxCount is the largest run a generator accepts unless configured lower
const MaxCount = 1_000_000

// ParseCount reads a node count such as "750", "1k" or "10K". Counts above
// MaxCount are rejected.
func ParseCount(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	mult := 1
	if strings.HasSuffix(v, "k") {
		mult = 1000
		v = strings.TrimSuffix(v, "k")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid node count %q", s)
	}
	if n > math.MaxInt/mult || n*mult > MaxCount {
		return 0, fmt.Errorf("node count %q exceeds the limit of %s", s, FormatCount(MaxCount))
	}
	return n * mult, nil
}

// FormatCount renders a count the way presets are labelled
func FormatCount(n int) string {
	if n >= 1000 && n%1000 == 0 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return strconv.Itoa(n)
}
