package services

import (
	"github.com/salsadigitalauorg/tidepool/pkg/repos"
	"github.com/salsadigitalauorg/tidepool/pkg/values"
)

// Type tells system services, built from presets, apart from user services,
// whose values are supplied whole.
type Type string

const (
	TypeSystem Type = "system"
	TypeUser   Type = "user"
)

// Resolved is a service ready to be turned into a helm release.
type Resolved struct {
	Name        string            `yaml:"name"`
	Namespace   string            `yaml:"namespace"`
	ServiceType Type              `yaml:"service_type"`
	Chart       string            `yaml:"chart,omitempty"`
	Version     string            `yaml:"version,omitempty"`
	Repo        *repos.Repository `yaml:"repo,omitempty"`
	StorageSize string            `yaml:"storage_size,omitempty"`
	DefaultPort int               `yaml:"default_port,omitempty"`
	BaseValues  values.Tree       `yaml:"base_values"`
	// CustomValues are the user overrides after expansion, kept apart for
	// templates that render them separately.
	CustomValues values.Tree `yaml:"custom_values,omitempty"`
	// Credentials holds generated plain-text credentials. They only live
	// in memory for the duration of the run.
	Credentials map[string]string `yaml:"credentials,omitempty"`
}

func (r *Resolved) ServiceName() string { return r.Name }

func (r *Resolved) Repository() *repos.Repository { return r.Repo }

func (r *Resolved) SetRepository(repo *repos.Repository) { r.Repo = repo }

// Holders adapts resolved services for the repository resolver.
func Holders(lists ...[]*Resolved) []repos.Holder {
	var hs []repos.Holder
	for _, l := range lists {
		for _, r := range l {
			hs = append(hs, r)
		}
	}
	return hs
}
