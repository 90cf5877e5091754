package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries one message per rejected request field.
type Error struct {
	Fields map[string]string
}

// Error joins the field messages in field order so the text is stable.
func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, field := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// fieldErrors collects messages while a request is checked. The first message
// recorded for a field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) addErr(field string, err error) {
	if err != nil {
		f.add(field, err.Error())
	}
}

// err returns nil when nothing was recorded.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Fields: f}
}
