package composer

import (
	"fmt"
	"strconv"

	"github.com/salsadigitalauorg/tidepool/pkg/services"
)

const (
	CACertFile     = "/etc/ssl/certs/mkcert-ca.pem"
	InternalDomain = "kind.internal"
	InternalHost   = "localhost." + InternalDomain

	LogNodePath     = "/var/log"
	StorageNodePath = "/var/local-path-provisioner"

	// ServicesNodeLabel marks the worker nodes services are pinned to when
	// run-services-on-workers-only is set.
	ServicesNodeLabel = "tidepool.io/services"
)

// Mount is a host directory mounted into every node.
type Mount struct {
	Name      string `yaml:"name"`
	LocalPath string `yaml:"local_path"`
	NodePath  string `yaml:"node_path"`
	HostPath  string `yaml:"host_path"`
}

// Context is the resolved context handed to the templates. It is built
// once per run and not modified afterwards.
type Context struct {
	EnvName          string `yaml:"env_name"`
	LocalIP          string `yaml:"local_ip"`
	LocalDomain      string `yaml:"local_domain"`
	UseAppsSubdomain bool   `yaml:"use_apps_subdomain"`
	AppsSubdomain    string `yaml:"apps_subdomain"`
	LocalAppsDomain  string `yaml:"local_apps_domain"`
	InternalDomain   string `yaml:"internal_domain"`
	InternalHost     string `yaml:"internal_host"`

	APIPort             int    `yaml:"api_port"`
	KubernetesImage     string `yaml:"kubernetes_image"`
	KubernetesTag       string `yaml:"kubernetes_tag,omitempty"`
	KubernetesFullImage string `yaml:"kubernetes_full_image"`
	ControlPlanes       int    `yaml:"control_planes"`
	Workers             int    `yaml:"workers"`
	AllowCPScheduling   bool   `yaml:"allow_cp_scheduling"`
	Provider            string `yaml:"provider"`
	Runtime             string `yaml:"runtime,omitempty"`

	RegistryName string `yaml:"registry_name"`
	RegistryHost string `yaml:"registry_host"`
	RegistryPort int    `yaml:"registry_port,omitempty"`

	RegistryVersion      string `yaml:"registry_version,omitempty"`
	AppTemplateVersion   string `yaml:"app_template_version,omitempty"`
	NginxIngressVersion  string `yaml:"nginx_ingress_version,omitempty"`
	CertManagerVersion   string `yaml:"cert_manager_version,omitempty"`
	DnsmasqVersion       string `yaml:"dnsmasq_version,omitempty"`
	MetricsServerVersion string `yaml:"metrics_server_version,omitempty"`

	IngressPorts []int          `yaml:"ingress_ports"`
	ServicePorts map[string]int `yaml:"service_ports"`
	DNSPort      int            `yaml:"dns_port"`

	SystemServices []*services.Resolved `yaml:"system_services"`
	UserServices   []*services.Resolved `yaml:"user_services"`
	// Services is SystemServices followed by UserServices.
	Services     []*services.Resolved `yaml:"services"`
	Repositories map[string]string    `yaml:"repositories"`

	BaseDir    string  `yaml:"base_dir"`
	K8sDir     string  `yaml:"k8s_dir"`
	ConfigDir  string  `yaml:"config_dir"`
	Mounts     []Mount `yaml:"mounts"`
	RootCAPath string  `yaml:"root_ca_path"`
	CACertFile string  `yaml:"cacert_file"`

	UseServicePresets        bool `yaml:"use_service_presets"`
	UseServiceSecrets        bool `yaml:"use_service_secrets"`
	ExpandVars               bool `yaml:"expand_vars"`
	RunServicesOnWorkersOnly bool `yaml:"run_services_on_workers_only"`
	DeployMetricsServer      bool `yaml:"deploy_metrics_server"`

	ServicesNodeLabel string `yaml:"services_node_label"`
}

// ServicePortList returns the default ports of the enabled system
// services, in service order, without duplicates.
func (c *Context) ServicePortList() []int {
	seen := map[int]bool{}
	var ports []int
	for _, s := range c.SystemServices {
		if s.DefaultPort == 0 || seen[s.DefaultPort] {
			continue
		}
		seen[s.DefaultPort] = true
		ports = append(ports, s.DefaultPort)
	}
	return ports
}

// TCPServices maps each system service port to the namespace/name:port
// target exposed through the ingress controller. The first service
// claiming a port keeps it.
func (c *Context) TCPServices() map[string]string {
	out := map[string]string{}
	for _, s := range c.SystemServices {
		if s.DefaultPort == 0 {
			continue
		}
		port := strconv.Itoa(s.DefaultPort)
		if _, ok := out[port]; ok {
			continue
		}
		out[port] = fmt.Sprintf("%s/%s:%d", s.Namespace, s.Name, s.DefaultPort)
	}
	return out
}

// Credentials returns the generated credentials per service name, for
// services that have any.
func (c *Context) Credentials() map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, s := range c.Services {
		if len(s.Credentials) > 0 {
			out[s.Name] = s.Credentials
		}
	}
	return out
}
