// Package action runs a list of checks and reports every one that fails.
package action

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

type Action interface {
	GetStage() string
	Execute() error
}

type Chain struct {
	Actions []Action
}

func (c *Chain) Add(a Action) *Chain {
	c.Actions = append(c.Actions, a)
	return c
}

// Run executes the actions and returns their errors joined.
func (c *Chain) Run() error {
	var errs []error
	for _, a := range c.Actions {
		if err := a.Execute(); err != nil {
			log.WithField("stage", a.GetStage()).WithError(err).Debug("action failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
