package invoicing

import (
	"fmt"
	"regexp"
	"strconv"
)

// NextNumber derives the next invoice number for a prefix by scanning the
// numbers already persisted: max matching sequence + 1, zero-padded to four
// digits. Scanning beats trusting the cached settings counter, which can
// drift; the DB unique constraint catches the remaining race and the
// composer recomputes and retries.
func NextNumber(prefix string, existing []string) string {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	max := 0
	for _, number := range existing {
		m := pattern.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, max+1)
}
