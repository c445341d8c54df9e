package sequence

import (
	"fmt"
	"time"

	"github.com/nleeper/goment"
)

// FormatDate renders t with a moment.js layout such as "YYYYMMDD" or
// "YYYY-MM-DD HH:mm". Text inside square brackets is copied verbatim.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		return ""
	}
	g, err := goment.New(t)
	if err != nil {
		return ""
	}
	return g.Format(layout)
}

// Pad renders value zero-padded to digits. Values wider than digits are not
// truncated.
func Pad(value int64, digits int) string {
	if digits <= 0 {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("%0*d", digits, value)
}
