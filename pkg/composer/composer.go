// Package composer assembles the resolved context from an environment
// descriptor.
package composer

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/salsadigitalauorg/tidepool/pkg/descriptor"
	"github.com/salsadigitalauorg/tidepool/pkg/presets"
	"github.com/salsadigitalauorg/tidepool/pkg/repos"
	"github.com/salsadigitalauorg/tidepool/pkg/secrets"
	"github.com/salsadigitalauorg/tidepool/pkg/services"
	"github.com/salsadigitalauorg/tidepool/pkg/vars"
)

// Options carries the collaborators used for one run.
type Options struct {
	Catalog  *presets.Catalog
	Secrets  *secrets.Generator
	Expander *vars.Expander
}

// Compose runs the service pipelines, resolves repositories and builds the
// context. Either a complete context or an error is returned.
func Compose(env *descriptor.Environment, opts Options) (*Context, error) {
	if opts.Catalog == nil {
		return nil, &presets.LoadError{Source: "composer", Err: presets.ErrNoPresets}
	}
	if opts.Secrets == nil {
		opts.Secrets = secrets.NewGenerator(secrets.DefaultLength)
	}
	if opts.Expander == nil {
		opts.Expander = vars.New(false)
	}

	proc := services.NewProcessor(env, opts.Catalog, opts.Secrets, opts.Expander)
	system, err := proc.System(env.Services)
	if err != nil {
		return nil, err
	}
	user, err := proc.User(env.UserServices)
	if err != nil {
		return nil, err
	}

	holders := services.Holders(system, user)
	if err := repos.ResolveRefs(holders, env.HelmRepositories); err != nil {
		return nil, err
	}
	repositories := repos.Collect(env.HelmRepositories, holders)

	baseDir := env.BaseDir
	if env.VarsEnabled() {
		if baseDir, err = opts.Expander.ExpandEnvField("base-dir", baseDir); err != nil {
			return nil, err
		}
	}
	k8sDir := filepath.Join(baseDir, env.Name)
	mounts, err := nodeMounts(k8sDir)
	if err != nil {
		return nil, err
	}
	rootCA, err := filepath.Abs(filepath.Join(k8sDir, "certs", "rootCA.pem"))
	if err != nil {
		return nil, fmt.Errorf("unable to resolve root CA path: %w", err)
	}

	symbols := env.Symbols()
	ctx := &Context{
		EnvName:          env.Name,
		LocalIP:          env.LocalIP,
		LocalDomain:      env.LocalDomain,
		UseAppsSubdomain: env.UseAppsSubdomain,
		AppsSubdomain:    env.AppsSubdomain,
		LocalAppsDomain:  symbols[vars.LocalAppsDomain],
		InternalDomain:   InternalDomain,
		InternalHost:     InternalHost,

		APIPort:             env.Kubernetes.APIPort,
		KubernetesImage:     env.Kubernetes.Image,
		KubernetesTag:       env.Kubernetes.Tag,
		KubernetesFullImage: fullImage(env.Kubernetes.Image, env.Kubernetes.Tag),
		ControlPlanes:       env.Nodes.ControlPlaneCount(),
		Workers:             env.Nodes.Workers,
		AllowCPScheduling:   env.Nodes.AllowSchedulingOnControlPlane,
		Provider:            env.Provider.Name,
		Runtime:             env.Provider.Runtime,

		RegistryName: env.Registry.Name,
		RegistryHost: symbols[vars.RegistryHost],
		RegistryPort: env.Registry.Port,

		RegistryVersion:      env.InternalComponent("registry"),
		AppTemplateVersion:   env.InternalComponent("app-template"),
		NginxIngressVersion:  env.InternalComponent("nginx-ingress"),
		CertManagerVersion:   env.InternalComponent("cert-manager"),
		DnsmasqVersion:       env.InternalComponent("dnsmasq"),
		MetricsServerVersion: env.InternalComponent("metrics-server"),

		IngressPorts: append([]int{}, env.LocalLBPorts...),
		ServicePorts: copyPorts(opts.Catalog.Ports),
		DNSPort:      env.DNS.Port,

		SystemServices: system,
		UserServices:   user,
		Services:       append(append([]*services.Resolved{}, system...), user...),
		Repositories:   repositories,

		BaseDir:    baseDir,
		K8sDir:     k8sDir,
		ConfigDir:  filepath.Join(k8sDir, "config"),
		Mounts:     mounts,
		RootCAPath: rootCA,
		CACertFile: CACertFile,

		UseServicePresets:        env.PresetsEnabled(),
		UseServiceSecrets:        env.SecretsEnabled(),
		ExpandVars:               env.VarsEnabled(),
		RunServicesOnWorkersOnly: env.RunServicesOnWorkersOnly,
		DeployMetricsServer:      env.DeployMetricsServer,

		ServicesNodeLabel: ServicesNodeLabel,
	}

	log.WithFields(log.Fields{
		"env":             ctx.EnvName,
		"system-services": len(system),
		"user-services":   len(user),
		"repositories":    len(repositories),
	}).Debug("composed context")
	return ctx, nil
}

func fullImage(image, tag string) string {
	if tag == "" {
		return image
	}
	return image + ":" + tag
}

func nodeMounts(k8sDir string) ([]Mount, error) {
	mounts := []Mount{
		{Name: "logs", LocalPath: "logs", NodePath: LogNodePath},
		{Name: "storage", LocalPath: "storage", NodePath: StorageNodePath},
	}
	for i := range mounts {
		p, err := filepath.Abs(filepath.Join(k8sDir, mounts[i].LocalPath))
		if err != nil {
			return nil, fmt.Errorf("unable to resolve %s mount: %w", mounts[i].Name, err)
		}
		mounts[i].HostPath = p
	}
	return mounts, nil
}

func copyPorts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
