// Package templates renders the resolved context into the files consumed by
// kind, containerd, dnsmasq, helmfile and cert-manager.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed templates
var templates embed.FS

// File pairs a template with the name it is written under in the config
// directory.
type File struct {
	Template string
	Dest     string
}

// Files are rendered in this order by Generate.
var Files = []File{
	{Template: "kind/cluster.yaml.tmpl", Dest: "cluster.yaml"},
	{Template: "containerd/config.toml.tmpl", Dest: "containerd.toml"},
	{Template: "dnsmasq/config.conf.tmpl", Dest: "dnsmasq.conf"},
	{Template: "helmfile/helmfile.yaml.tmpl", Dest: "helmfile.yaml"},
	{Template: "cert-manager/cluster-issuer.yaml.tmpl", Dest: "cluster-issuer.yaml"},
}

// RenderError is returned when a template fails to parse or execute.
type RenderError struct {
	Template string
	// Location is line[:col] when the template engine reported one.
	Location string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("template %s:%s: %v", e.Template, e.Location, e.Err)
	}
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

var locationPattern = regexp.MustCompile(`template: [^:]+:(\d+(?::\d+)?)`)

func newRenderError(name string, err error) *RenderError {
	re := &RenderError{Template: name, Err: err}
	if m := locationPattern.FindStringSubmatch(err.Error()); m != nil {
		re.Location = m[1]
	}
	return re
}

// Renderer executes templates read from Source.
type Renderer struct {
	Source fs.FS
}

// Embedded returns the templates compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// FromDir returns the templates found under dir on afs, for overriding the
// embedded set.
func FromDir(afs afero.Fs, dir string) fs.FS {
	return afero.NewIOFS(afero.NewBasePathFs(afs, dir))
}

// NewRenderer returns a Renderer over source, or the embedded templates
// when source is nil.
func NewRenderer(source fs.FS) *Renderer {
	if source == nil {
		source = Embedded()
	}
	return &Renderer{Source: source}
}

// Render executes the named template against data.
func (r *Renderer) Render(name string, data interface{}) (string, error) {
	t, err := template.New(path.Base(name)).
		Funcs(FuncMap()).
		Option("missingkey=error").
		ParseFS(r.Source, name)
	if err != nil {
		return "", newRenderError(name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", newRenderError(name, err)
	}
	return buf.String(), nil
}

// FuncMap holds the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"toYaml":  toYaml,
		"indent":  indent,
		"nindent": nindent,
		"join":    join,
		"seq":     seq,
	}
}

func toYaml(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func indent(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}

func nindent(spaces int, s string) string {
	return "\n" + indent(spaces, s)
}

// seq returns 0..n-1, for ranging over node counts.
func seq(n int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return out
}

func join(sep string, v interface{}) string {
	switch items := v.(type) {
	case []string:
		return strings.Join(items, sep)
	case []int:
		s := make([]string, len(items))
		for i, n := range items {
			s[i] = fmt.Sprint(n)
		}
		return strings.Join(s, sep)
	case []interface{}:
		s := make([]string, len(items))
		for i, item := range items {
			s[i] = fmt.Sprint(item)
		}
		return strings.Join(s, sep)
	}
	return fmt.Sprint(v)
}
