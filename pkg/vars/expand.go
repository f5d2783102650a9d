// Package vars substitutes variables inside service value trees.
//
// Two namespaces are expanded, always in this order:
//
//   - host environment variables, written ${NAME}
//   - environment-derived symbols such as ${local-domain}, see Symbols
//
// A placeholder with no matching variable is left as-is so that a later
// templating stage can still pick it up. Expander.Strict turns that case
// into an UnresolvedVariableError instead.
package vars

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/salsadigitalauorg/tidepool/pkg/values"
)

var (
	envPattern         = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	symbolPattern      = regexp.MustCompile(`\$\{([a-z][a-z0-9]*(?:-[a-z0-9]+)*)\}`)
	placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// Expander runs the expansion passes.
type Expander struct {
	// LookupEnv resolves host environment variables.
	LookupEnv func(string) (string, bool)
	// Strict fails expansion when a placeholder is left unresolved.
	Strict bool
}

// New returns an Expander reading the process environment.
func New(strict bool) *Expander {
	return &Expander{LookupEnv: lookupEnv, Strict: strict}
}

// lookupEnv falls back to the working directory for PWD, which is not
// always exported by non-interactive shells.
func lookupEnv(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	if name == "PWD" {
		if wd, err := os.Getwd(); err == nil {
			return wd, true
		}
	}
	return "", false
}

// ExpandEnvString runs the environment pass over a single string.
func (e *Expander) ExpandEnvString(s string) string {
	if e.LookupEnv == nil {
		return s
	}
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if v, ok := e.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

// ExpandEnvField runs the environment pass over a single descriptor field.
// In strict mode a placeholder left behind is an error naming field.
func (e *Expander) ExpandEnvField(field, s string) (string, error) {
	out := e.ExpandEnvString(s)
	names := Placeholders(out)
	if len(names) == 0 {
		return out, nil
	}
	if e.Strict {
		return "", &UnresolvedVariableError{Path: field, Names: names}
	}
	log.WithFields(log.Fields{
		"path":      field,
		"variables": names,
	}).Warn("unresolved variable left in value")
	return out, nil
}

// ExpandSymbolString runs the symbolic pass over a single string.
func ExpandSymbolString(s string, symbols Symbols) string {
	return symbolPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := symbolPattern.FindStringSubmatch(match)[1]
		if v, ok := symbols[name]; ok {
			return v
		}
		return match
	})
}

// Expand returns a copy of tree with both passes applied to every string
// scalar, however deeply nested. Non-string scalars are left alone. When
// enabled is false the copy is returned untouched.
func (e *Expander) Expand(tree values.Tree, symbols Symbols, enabled bool) (values.Tree, error) {
	out := values.Copy(tree)
	if !enabled {
		return out, nil
	}

	unresolved := map[string][]string{}
	for k, v := range out {
		out[k] = e.expandValue(v, symbols, k, unresolved)
	}
	if len(unresolved) == 0 {
		return out, nil
	}

	paths := make([]string, 0, len(unresolved))
	for p := range unresolved {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if e.Strict {
		return nil, &UnresolvedVariableError{Path: paths[0], Names: unresolved[paths[0]]}
	}
	for _, p := range paths {
		log.WithFields(log.Fields{
			"path":      p,
			"variables": unresolved[p],
		}).Warn("unresolved variable left in value")
	}
	return out, nil
}

func (e *Expander) expandValue(v interface{}, symbols Symbols, path string, unresolved map[string][]string) interface{} {
	switch val := v.(type) {
	case string:
		s := ExpandSymbolString(e.ExpandEnvString(val), symbols)
		if names := Placeholders(s); len(names) > 0 {
			unresolved[path] = names
		}
		return s
	case []interface{}:
		for i, item := range val {
			val[i] = e.expandValue(item, symbols, fmt.Sprintf("%s[%d]", path, i), unresolved)
		}
		return val
	}
	if m, ok := values.AsTree(v); ok {
		for k, item := range m {
			m[k] = e.expandValue(item, symbols, path+"."+k, unresolved)
		}
		return map[string]interface{}(m)
	}
	return v
}

// Placeholders lists the variable names still present in s.
func Placeholders(s string) []string {
	if !strings.Contains(s, "${") {
		return nil
	}
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}
