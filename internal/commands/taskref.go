package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todo/internal/service"
)

// idPrefix marks a raw store identifier in a task reference.
const idPrefix = "@"

// TaskRef is a parsed task reference: a row number as printed by list, or
// a raw identifier.
type TaskRef struct {
	Num int        // 1-based row number; 0 when ID is set
	ID  service.ID // set for @<id> references
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the first argument as a task reference.
//
// "3" refers to the third row of the list, "@17" to the task whose
// identifier is 17. Anything else is rejected.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	arg := args[0]

	if id, ok := strings.CutPrefix(arg, idPrefix); ok {
		if strings.TrimSpace(id) == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: service.ID(id)}, nil
	}

	if !isAllDigits(arg) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	num, err := strconv.Atoi(arg)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{Num: num}, nil
}

// String returns the reference as the user would type it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return idPrefix + string(r.ID)
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
