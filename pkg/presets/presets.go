// Package presets provides the built-in default chart values and listening
// ports for well-known services.
//
// The catalog is loaded once per run and passed around read-only; callers
// that need to modify a preset's values must take a copy first.
package presets

import (
	"embed"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/salsadigitalauorg/tidepool/pkg/values"
)

//go:embed defaults/service_presets.yaml
var defaults embed.FS

const defaultSource = "defaults/service_presets.yaml"

// StorageShape describes where a chart expects its volume size.
type StorageShape int

const (
	// StorageNone means the chart takes no size from the descriptor.
	StorageNone StorageShape = iota
	// StorageRequestedSize is storage.requestedSize.
	StorageRequestedSize
	// StoragePrimaryPersistence is primary.persistence.{enabled,size}.
	StoragePrimaryPersistence
	// StorageBarePersistence is persistence.{enabled,size}.
	StorageBarePersistence
)

func (s StorageShape) String() string {
	switch s {
	case StorageRequestedSize:
		return "storage.requestedSize"
	case StoragePrimaryPersistence:
		return "primary.persistence"
	case StorageBarePersistence:
		return "persistence"
	}
	return "none"
}

// ShapeOf picks the storage shape from the top-level keys of a preset.
// primary is checked first, then persistence, then storage.
func ShapeOf(v values.Tree) StorageShape {
	switch {
	case v.Has("primary"):
		return StoragePrimaryPersistence
	case v.Has("persistence"):
		return StorageBarePersistence
	case v.Has("storage"):
		return StorageRequestedSize
	}
	return StorageNone
}

// Fragment returns the values that set size for this shape.
func (s StorageShape) Fragment(size string) values.Tree {
	switch s {
	case StorageRequestedSize:
		return values.FromPath(size, "storage", "requestedSize")
	case StoragePrimaryPersistence:
		return values.FromPath(map[string]interface{}{"enabled": true, "size": size}, "primary", "persistence")
	case StorageBarePersistence:
		return values.FromPath(map[string]interface{}{"enabled": true, "size": size}, "persistence")
	}
	return nil
}

// Preset is the catalog entry for one service name.
type Preset struct {
	Name    string
	Values  values.Tree
	Storage StorageShape
}

// Catalog holds every preset and port known to the run.
type Catalog struct {
	Ports   map[string]int
	Presets map[string]Preset
}

type presetFile struct {
	ServicePorts         map[string]int                    `yaml:"service_ports"`
	ServiceValuesPresets map[string]map[string]interface{} `yaml:"service_values_presets"`
}

// Load reads the catalog embedded in the binary.
func Load() (*Catalog, error) {
	data, err := defaults.ReadFile(defaultSource)
	if err != nil {
		return nil, &LoadError{Source: defaultSource, Err: err}
	}
	return Parse(data, defaultSource)
}

// LoadFile reads the catalog from a file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(data, path)
}

// Parse decodes a catalog document. source is only used in errors.
func Parse(data []byte, source string) (*Catalog, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	if f.ServicePorts == nil && f.ServiceValuesPresets == nil {
		return nil, &LoadError{Source: source, Err: ErrNoPresets}
	}

	c := &Catalog{
		Ports:   map[string]int{},
		Presets: map[string]Preset{},
	}
	for name, port := range f.ServicePorts {
		c.Ports[name] = port
	}
	for name, v := range f.ServiceValuesPresets {
		tree := values.Copy(values.Tree(v))
		c.Presets[name] = Preset{
			Name:    name,
			Values:  tree,
			Storage: ShapeOf(tree),
		}
	}

	log.WithFields(log.Fields{
		"source":  source,
		"presets": len(c.Presets),
		"ports":   len(c.Ports),
	}).Debug("loaded service presets")
	return c, nil
}

// Lookup returns the preset for a service name.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	if c == nil {
		return Preset{}, false
	}
	p, ok := c.Presets[name]
	return p, ok
}

// Port returns the listening port for a service name.
func (c *Catalog) Port(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	p, ok := c.Ports[name]
	return p, ok
}

// Names lists every service name the catalog knows of, sorted.
func (c *Catalog) Names() []string {
	seen := map[string]bool{}
	for n := range c.Presets {
		seen[n] = true
	}
	for n := range c.Ports {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
