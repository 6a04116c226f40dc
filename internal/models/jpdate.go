package models

import (
	"fmt"
	"time"
)

// FormatDateJa renders a date in the Japanese convention: 2024年1月2日.
func FormatDateJa(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// FormatDateTimeJa renders a timestamp as 2024年1月2日 15:04.
func FormatDateTimeJa(t time.Time) string {
	return fmt.Sprintf("%s %02d:%02d", FormatDateJa(t), t.Hour(), t.Minute())
}
