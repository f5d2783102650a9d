// Package repos resolves the helm chart repositories services point at.
//
// A service either carries a full {name, url} pair or a ref naming one of
// the environment's central helm-repositories. Refs are resolved first;
// only then is the deduplicated repository map collected.
package repos

import (
	log "github.com/sirupsen/logrus"
)

// Repository is a helm chart repository, or a reference to one.
type Repository struct {
	Name string `yaml:"name,omitempty" validate:"required"`
	URL  string `yaml:"url,omitempty" validate:"required,url"`
	Ref  string `yaml:"ref,omitempty"`
}

// IsConcrete reports whether r holds both name and url.
func (r *Repository) IsConcrete() bool {
	return r != nil && r.Name != "" && r.URL != ""
}

// IsRef reports whether r points at a central entry.
func (r *Repository) IsRef() bool {
	return r != nil && r.Ref != ""
}

// Usable reports whether r can be turned into a repository, either
// directly or through resolution.
func (r *Repository) Usable() bool {
	return r.IsConcrete() || r.IsRef()
}

// Holder is anything carrying a repository field, i.e. a resolved service.
type Holder interface {
	ServiceName() string
	Repository() *Repository
	SetRepository(*Repository)
}

// Validate checks that a service declares a repository it can be installed
// from. It runs before any reference is resolved.
func Validate(service string, r *Repository) error {
	if !r.Usable() {
		return &MissingRepositoryError{Service: service}
	}
	return nil
}

// ResolveRefs replaces every ref with a copy of the matching central entry.
func ResolveRefs(holders []Holder, central []Repository) error {
	index := make(map[string]Repository, len(central))
	for _, c := range central {
		index[c.Name] = c
	}

	for _, h := range holders {
		r := h.Repository()
		if !r.IsRef() {
			continue
		}
		entry, ok := index[r.Ref]
		if !ok {
			return &UnresolvedReferenceError{Service: h.ServiceName(), Ref: r.Ref}
		}
		log.WithFields(log.Fields{
			"service": h.ServiceName(),
			"ref":     r.Ref,
			"url":     entry.URL,
		}).Debug("resolved repository reference")
		h.SetRepository(&Repository{Name: entry.Name, URL: entry.URL})
	}
	return nil
}

// Collect builds the name -> url map of every repository in use: the
// central entries plus the concrete pairs left on services. A later entry
// with the same name wins.
func Collect(central []Repository, holders []Holder) map[string]string {
	out := make(map[string]string, len(central))
	for _, c := range central {
		out[c.Name] = c.URL
	}
	for _, h := range holders {
		r := h.Repository()
		if !r.IsConcrete() {
			continue
		}
		if prev, ok := out[r.Name]; ok && prev != r.URL {
			log.WithFields(log.Fields{
				"service":  h.ServiceName(),
				"name":     r.Name,
				"previous": prev,
				"url":      r.URL,
			}).Debug("repository overridden by service")
		}
		out[r.Name] = r.URL
	}
	return out
}
