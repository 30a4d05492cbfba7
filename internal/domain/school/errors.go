package school

import (
	"errors"
	"sort"
	"strings"
)

var ErrSchoolNotFound = errors.New("school not found")

// ValidationError lists invalid fields by wire name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
