package vars

import (
	"fmt"
	"strings"
)

// UnresolvedVariableError is returned in strict mode when a value still
// holds a placeholder after expansion.
type UnresolvedVariableError struct {
	Path  string
	Names []string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("%s: unresolved variable(s) %s", e.Path, strings.Join(e.Names, ", "))
}
