package validation

import (
	"strings"
	"time"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
)

// ValidateCreateSnapshot checks the optional YYYY-MM-DD date and returns it;
// the zero time means today.
func ValidateCreateSnapshot(req request.CreateSnapshotRequest) (time.Time, error) {
	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, nil
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return time.Time{}, &Error{Fields: map[string]string{"date": err.Error()}}
	}
	return date, nil
}

// ValidateDateRange parses optional start and end query values.
// Either may be empty; when both are set start must not be after end.
func ValidateDateRange(start, end string) (time.Time, time.Time, error) {
	errs := fieldErrors{}
	var startDate, endDate time.Time
	var err error

	if start != "" {
		startDate, err = ParseTime(start)
		errs.addErr("startDate", err)
	}
	if end != "" {
		endDate, err = ParseTime(end)
		errs.addErr("endDate", err)
	}
	if len(errs) == 0 && !startDate.IsZero() && !endDate.IsZero() && startDate.After(endDate) {
		errs.add("startDate", "startDate must not be after endDate")
	}

	if err := errs.err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startDate, endDate, nil
}
