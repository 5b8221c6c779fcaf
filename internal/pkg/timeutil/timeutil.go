package timeutil

import "time"

const (
	DayLayout      = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

func NowUnix() int64 {
	return time.Now().Unix()
}

func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func IsDay(value string) bool {
	_, err := time.Parse(DayLayout, value)
	return err == nil
}

func IsDateTime(value string) bool {
	_, err := time.Parse(DateTimeLayout, value)
	return err == nil
}
