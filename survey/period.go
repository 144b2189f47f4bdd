package survey

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var periodRe = regexp.MustCompile(`^(\d{4})-Q([1-4])$`)

// Period identifies one survey cycle, e.g. 2026-Q3.
type Period struct {
	Year    int
	Quarter int
}

func (p Period) String() string {
	return fmt.Sprintf("%d-Q%d", p.Year, p.Quarter)
}

// ParsePeriod validates a YYYY-Qn label. Years outside a sane range are
// rejected to keep typos out of human-facing artifacts.
func ParsePeriod(s string) (Period, error) {
	m := periodRe.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("invalid period %q (want e.g. 2026-Q3)", s)
	}
	year, _ := strconv.Atoi(m[1])
	quarter, _ := strconv.Atoi(m[2])
	if year < 2000 || year > 2100 {
		return Period{}, fmt.Errorf("invalid period year %d", year)
	}
	return Period{Year: year, Quarter: quarter}, nil
}

// CurrentPeriod returns the period containing t.
func CurrentPeriod(t time.Time) Period {
	return Period{
		Year:    t.UTC().Year(),
		Quarter: (int(t.UTC().Month())-1)/3 + 1,
	}
}
