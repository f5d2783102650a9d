// Package resolver points the host's DNS resolution for the local domain at
// the environment's DNS server. Every step that touches system files runs
// through sudo.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/salsadigitalauorg/tidepool/pkg/action"
	"github.com/salsadigitalauorg/tidepool/pkg/command"
)

var ErrUnsupportedPlatform = errors.New("resolver configuration is not supported on this platform")

const (
	DarwinDir = "/etc/resolver"
	LinuxDir  = "/etc/systemd/resolved.conf.d"

	resolvedConf = "/etc/systemd/resolved.conf"
)

// Resolver installs resolver files for one platform.
type Resolver struct {
	GOOS string
	// Fs holds the temporary file that is moved into place.
	Fs afero.Fs
}

func New(goos string) *Resolver {
	return &Resolver{GOOS: goos, Fs: afero.NewOsFs()}
}

// VerifyRequirements checks for the binaries Install and Remove run.
func (r *Resolver) VerifyRequirements() error {
	c := &action.Chain{}
	switch r.GOOS {
	case "darwin":
		c.Add(action.BinaryExists{Stage: "resolver", Bin: "sudo", VersionArgs: []string{"-V"}})
	case "linux":
		c.Add(action.BinaryExists{Stage: "resolver", Bin: "sudo", VersionArgs: []string{"-V"}}).
			Add(action.BinaryExists{Stage: "resolver", Bin: "systemctl", VersionArgs: []string{"--version"}})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, r.GOOS)
	}
	return c.Run()
}

// Path returns where the resolver file for domain is installed.
func (r *Resolver) Path(domain string) (string, error) {
	switch r.GOOS {
	case "darwin":
		return filepath.Join(DarwinDir, domain), nil
	case "linux":
		return filepath.Join(LinuxDir, domain+".conf"), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, r.GOOS)
}

// Content returns the resolver file contents for domain.
func (r *Resolver) Content(domain, ip string) (string, error) {
	switch r.GOOS {
	case "darwin":
		return fmt.Sprintf("search %s\nnameserver %s\n", domain, ip), nil
	case "linux":
		return fmt.Sprintf("[Resolve]\nDNS=%s\nDomains=%s\n", ip, domain), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, r.GOOS)
}

// Install sends queries for domain to ip.
func (r *Resolver) Install(domain, ip string) error {
	dest, err := r.Path(domain)
	if err != nil {
		return err
	}
	data, err := r.Content(domain, ip)
	if err != nil {
		return err
	}

	logger := log.WithField("resolverFile", dest)
	logger.Info("installing resolver file")

	tmp, err := afero.TempFile(r.Fs, "", "tidepool-resolver-")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	_, err = tmp.WriteString(data)
	tmp.Close()
	if err != nil {
		return fmt.Errorf("unable to write to temporary file: %w", err)
	}

	owner := "root:root"
	if r.GOOS == "darwin" {
		owner = "root:wheel"
	}

	chain := &command.Chain{}
	if r.GOOS == "linux" {
		r.disableStubListener(chain)
	}
	chain.Add("create directory", command.Sudo("mkdir", "-p", filepath.Dir(dest))).
		Add("move file", command.Sudo("mv", tmp.Name(), dest)).
		Add("set owner", command.Sudo("chown", owner, dest)).
		Add("set permissions", command.Sudo("chmod", "644", dest))
	if r.GOOS == "linux" {
		chain.Add("restart systemd-resolved", command.Sudo("systemctl", "restart", "systemd-resolved"))
	}

	if err := chain.Exec(); err != nil {
		r.Fs.Remove(tmp.Name())
		return err
	}
	logger.Info("resolver file installed")
	return nil
}

// disableStubListener frees port 53 when systemd-resolved is running.
func (r *Resolver) disableStubListener(chain *command.Chain) {
	out, err := command.ShellCommander("systemctl", "is-enabled", "systemd-resolved").Output()
	if err != nil {
		log.WithError(command.GetMsgFromCommandError(err)).
			Warn("unable to check systemd-resolved status")
		return
	}
	if strings.TrimSpace(string(out)) != "enabled" {
		return
	}
	chain.Add("disable stub listener", command.Sudo("sed", "-i",
		"s/#DNSStubListener=yes/DNSStubListener=no/", resolvedConf))
}

// Remove deletes the resolver file for domain.
func (r *Resolver) Remove(domain string) error {
	dest, err := r.Path(domain)
	if err != nil {
		return err
	}
	log.WithField("resolverFile", dest).Info("removing resolver file")

	chain := &command.Chain{}
	chain.Add("remove file", command.Sudo("rm", "-f", dest))
	if r.GOOS == "linux" {
		chain.Add("restart systemd-resolved", command.Sudo("systemctl", "restart", "systemd-resolved"))
	}
	return chain.Exec()
}
