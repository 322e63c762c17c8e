package alumni

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMembershipID renders "EH" + two-digit batch year + four-digit
// sequence, e.g. batch 2019 sequence 1 is EH190001. Sequences above 9999
// widen rather than wrap.
func FormatMembershipID(batch int, seq int64) string {
	return fmt.Sprintf("EH%02d%04d", batch%100, seq)
}

// MembershipSequence returns the sequence part of an id built by
// FormatMembershipID.
func MembershipSequence(id string) (int64, bool) {
	if len(id) <= 4 || !strings.HasPrefix(id, "EH") {
		return 0, false
	}
	n, err := strconv.ParseInt(id[4:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
