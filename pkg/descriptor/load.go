package descriptor

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAppsSubdomain = "apps"
	DefaultDNSPort       = 53
	DefaultControlPlanes = 1
)

var DefaultLBPorts = []int{80, 443}

// Load reads, defaults and validates a descriptor file.
func Load(path string) (*Environment, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on the given filesystem.
func LoadFs(fs afero.Fs, path string) (*Environment, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	log.WithField("descriptor", path).Debug("read descriptor")
	return Parse(data)
}

// Parse decodes, defaults and validates a descriptor document.
func Parse(data []byte) (*Environment, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	if doc.Environment == nil {
		return nil, ErrNoEnvironment
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	doc.Environment.ApplyDefaults()
	return doc.Environment, nil
}

// ApplyDefaults fills in optional fields left empty.
func (e *Environment) ApplyDefaults() {
	if e.AppsSubdomain == "" {
		e.AppsSubdomain = DefaultAppsSubdomain
	}
	if len(e.LocalLBPorts) == 0 {
		e.LocalLBPorts = append([]int{}, DefaultLBPorts...)
	}
	if e.Nodes != nil && e.Nodes.ControlPlanes == nil {
		cp := DefaultControlPlanes
		e.Nodes.ControlPlanes = &cp
	}
	if e.DNS.Port == 0 {
		e.DNS.Port = DefaultDNSPort
	}
}
