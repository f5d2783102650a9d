// Package descriptor defines the environment descriptor: the single YAML
// document describing one local cluster environment and the services to
// deploy on it.
package descriptor

import (
	"github.com/salsadigitalauorg/tidepool/pkg/repos"
	"github.com/salsadigitalauorg/tidepool/pkg/vars"
)

// Document is the root of a descriptor file.
type Document struct {
	Environment *Environment `yaml:"environment" validate:"required"`
}

type Environment struct {
	Name             string `yaml:"name" validate:"required"`
	LocalIP          string `yaml:"local-ip" validate:"required,ip"`
	LocalDomain      string `yaml:"local-domain" validate:"required"`
	UseAppsSubdomain bool   `yaml:"use-apps-subdomain"`
	AppsSubdomain    string `yaml:"apps-subdomain"`
	LocalLBPorts     []int  `yaml:"local-lb-ports"`
	BaseDir          string `yaml:"base-dir" validate:"required"`

	Kubernetes *Kubernetes `yaml:"kubernetes" validate:"required"`
	Nodes      *Nodes      `yaml:"nodes" validate:"required"`
	Provider   *Provider   `yaml:"provider" validate:"required"`
	Registry   *Registry   `yaml:"registry" validate:"required"`
	DNS        DNS         `yaml:"dns"`

	// InternalComponents pins versions of the cluster add-ons, written as a
	// list of single-key maps, e.g. [{cert-manager: v1.16.1}].
	InternalComponents []map[string]string `yaml:"internal-components"`
	HelmRepositories   []repos.Repository  `yaml:"helm-repositories" validate:"dive"`

	UseServicePresets        *bool `yaml:"use-service-presets"`
	UseServiceSecrets        *bool `yaml:"use-service-secrets"`
	ExpandVars               *bool `yaml:"expand-vars"`
	RunServicesOnWorkersOnly bool  `yaml:"run-services-on-workers-only"`
	DeployMetricsServer      bool  `yaml:"deploy-metrics-server"`

	Services     []Service `yaml:"services" validate:"unique=Name,dive"`
	UserServices []Service `yaml:"user-services" validate:"unique=Name,dive"`
}

type Kubernetes struct {
	APIPort int    `yaml:"api-port" validate:"required,min=1,max=65535"`
	Image   string `yaml:"image"`
	Tag     string `yaml:"tag"`
}

type Nodes struct {
	ControlPlanes                 *int `yaml:"control-planes" validate:"omitempty,min=1"`
	Workers                       int  `yaml:"workers" validate:"min=0"`
	AllowSchedulingOnControlPlane bool `yaml:"allow-scheduling-on-control-plane"`
}

type Provider struct {
	Name    string `yaml:"name" validate:"required"`
	Runtime string `yaml:"runtime"`
}

type Registry struct {
	Name string `yaml:"name" validate:"required"`
	Port int    `yaml:"port"`
}

type DNS struct {
	Port int `yaml:"port"`
}

// Service is one entry of services or user-services.
type Service struct {
	Name      string            `yaml:"name" validate:"required"`
	Enabled   bool              `yaml:"enabled"`
	Namespace string            `yaml:"namespace,omitempty"`
	Storage   *Storage          `yaml:"storage,omitempty"`
	Chart     string            `yaml:"chart,omitempty"`
	Version   string            `yaml:"version,omitempty"`
	Repo      *repos.Repository `yaml:"repo,omitempty" validate:"-"`
	Config    ServiceConfig     `yaml:"config,omitempty"`
}

type Storage struct {
	Size string `yaml:"size"`
}

type ServiceConfig struct {
	Values map[string]interface{} `yaml:"values,omitempty"`
}

// StorageSize returns the declared size, or "" when none is declared.
func (s Service) StorageSize() string {
	if s.Storage == nil {
		return ""
	}
	return s.Storage.Size
}

func (e *Environment) PresetsEnabled() bool { return boolOr(e.UseServicePresets, true) }
func (e *Environment) SecretsEnabled() bool { return boolOr(e.UseServiceSecrets, true) }
func (e *Environment) VarsEnabled() bool    { return boolOr(e.ExpandVars, true) }

// ControlPlaneCount returns the configured control planes, or the default
// when the field was left out.
func (n *Nodes) ControlPlaneCount() int {
	if n.ControlPlanes == nil {
		return DefaultControlPlanes
	}
	return *n.ControlPlanes
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// InternalComponent returns the version pinned for an internal component,
// or "" if none is pinned.
func (e *Environment) InternalComponent(key string) string {
	for _, comp := range e.InternalComponents {
		if v, ok := comp[key]; ok {
			return v
		}
	}
	return ""
}

// Symbols derives the variables available to service values.
func (e *Environment) Symbols() vars.Symbols {
	return vars.NewSymbols(vars.SymbolSource{
		EnvName:          e.Name,
		LocalDomain:      e.LocalDomain,
		LocalIP:          e.LocalIP,
		RegistryName:     e.Registry.Name,
		AppsSubdomain:    e.AppsSubdomain,
		UseAppsSubdomain: e.UseAppsSubdomain,
	})
}
