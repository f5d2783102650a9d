// Package services turns the descriptor's service entries into resolved
// services.
//
// System services are layered, lowest precedence first:
//
//	preset values -> name overrides -> storage size -> generated auth -> custom values
//
// User services take their values as given, after the legacy ingress host
// rewrite and variable expansion. Disabled services are dropped in both
// pipelines.
package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/salsadigitalauorg/tidepool/pkg/descriptor"
	"github.com/salsadigitalauorg/tidepool/pkg/presets"
	"github.com/salsadigitalauorg/tidepool/pkg/repos"
	"github.com/salsadigitalauorg/tidepool/pkg/secrets"
	"github.com/salsadigitalauorg/tidepool/pkg/values"
	"github.com/salsadigitalauorg/tidepool/pkg/vars"
)

// Processor runs both pipelines for one environment.
type Processor struct {
	Catalog  *presets.Catalog
	Secrets  *secrets.Generator
	Expander *vars.Expander
	Symbols  vars.Symbols

	UsePresets bool
	UseSecrets bool
	ExpandVars bool
}

// NewProcessor wires a Processor from the environment's flags.
func NewProcessor(env *descriptor.Environment, catalog *presets.Catalog, gen *secrets.Generator, exp *vars.Expander) *Processor {
	return &Processor{
		Catalog:    catalog,
		Secrets:    gen,
		Expander:   exp,
		Symbols:    env.Symbols(),
		UsePresets: env.PresetsEnabled(),
		UseSecrets: env.SecretsEnabled(),
		ExpandVars: env.VarsEnabled(),
	}
}

// System resolves the enabled system services, in descriptor order.
func (p *Processor) System(list []descriptor.Service) ([]*Resolved, error) {
	out := []*Resolved{}
	for _, s := range list {
		if !s.Enabled {
			log.WithField("service", s.Name).Debug("skipping disabled system service")
			continue
		}
		r, err := p.system(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// User resolves the enabled user services, in descriptor order.
func (p *Processor) User(list []descriptor.Service) ([]*Resolved, error) {
	out := []*Resolved{}
	for _, s := range list {
		if !s.Enabled {
			log.WithField("service", s.Name).Debug("skipping disabled user service")
			continue
		}
		r, err := p.user(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (p *Processor) system(s descriptor.Service) (*Resolved, error) {
	logger := log.WithFields(log.Fields{
		"service": s.Name,
		"type":    TypeSystem,
	})

	base := values.Tree{}
	preset, hasPreset := p.Catalog.Lookup(s.Name)
	if p.UsePresets && hasPreset {
		logger.Debug("applying preset")
		base = values.Copy(preset.Values)
		values.Merge(values.Tree{
			"fullNameOverride": s.Name,
			"nameOverride":     s.Name,
		}, base)

		if size := s.StorageSize(); size != "" {
			if frag := preset.Storage.Fragment(size); frag != nil {
				logger.WithFields(log.Fields{
					"size":  size,
					"shape": preset.Storage,
				}).Debug("applying storage size")
				values.Merge(frag, base)
			}
		}
	}

	var creds map[string]string
	if p.UseSecrets && s.Chart != "" && p.Secrets != nil {
		auth, err := p.Secrets.ChartAuth(s.Name, s.Chart)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", s.Name, err)
		}
		if len(auth.Values) > 0 {
			logger.WithField("chart", s.Chart).Debug("applying generated auth")
			values.MergeAppend(auth.Values, base)
		}
		creds = auth.Credentials
	}

	custom, err := p.expand(s.Config.Values)
	if err != nil {
		return nil, fmt.Errorf("service %q: %w", s.Name, err)
	}
	values.Merge(custom, base)

	r := p.newResolved(s, TypeSystem, base)
	r.Credentials = creds
	if len(custom) > 0 {
		r.CustomValues = custom
	}
	if port, ok := p.Catalog.Port(s.Name); ok {
		r.DefaultPort = port
	}
	return r, nil
}

func (p *Processor) user(s descriptor.Service) (*Resolved, error) {
	if err := repos.Validate(s.Name, s.Repo); err != nil {
		return nil, err
	}

	v := vars.RewriteLegacyIngressHosts(values.Copy(s.Config.Values))
	base, err := p.expand(v)
	if err != nil {
		return nil, fmt.Errorf("service %q: %w", s.Name, err)
	}

	log.WithFields(log.Fields{
		"service": s.Name,
		"type":    TypeUser,
	}).Debug("resolved user service")
	return p.newResolved(s, TypeUser, base), nil
}

func (p *Processor) expand(v values.Tree) (values.Tree, error) {
	if p.Expander == nil {
		return values.Copy(v), nil
	}
	return p.Expander.Expand(v, p.Symbols, p.ExpandVars)
}

func (p *Processor) newResolved(s descriptor.Service, t Type, base values.Tree) *Resolved {
	ns := s.Namespace
	if ns == "" {
		ns = s.Name
	}
	var repo *repos.Repository
	if s.Repo != nil {
		c := *s.Repo
		repo = &c
	}
	return &Resolved{
		Name:        s.Name,
		Namespace:   ns,
		ServiceType: t,
		Chart:       s.Chart,
		Version:     s.Version,
		Repo:        repo,
		StorageSize: s.StorageSize(),
		BaseValues:  base,
	}
}
