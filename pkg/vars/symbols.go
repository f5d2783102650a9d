package vars

import "strconv"

// Names of the environment-derived variables available to service values
// as ${name}.
const (
	EnvName          = "env-name"
	LocalDomain      = "local-domain"
	LocalIP          = "local-ip"
	RegistryName     = "registry-name"
	RegistryHost     = "registry-host"
	AppsSubdomain    = "apps-subdomain"
	UseAppsSubdomain = "use-apps-subdomain"
	LocalAppsDomain  = "local-apps-domain"
)

// Symbols is the dictionary used by the symbolic expansion pass. It is built
// once per run from the environment descriptor.
type Symbols map[string]string

// SymbolSource holds the descriptor fields the symbols are derived from.
type SymbolSource struct {
	EnvName          string
	LocalDomain      string
	LocalIP          string
	RegistryName     string
	AppsSubdomain    string
	UseAppsSubdomain bool
}

// NewSymbols derives the symbol dictionary. The registry host is always
// <registry-name>.<local-domain>; the apps domain only carries the
// subdomain when it is switched on.
func NewSymbols(src SymbolSource) Symbols {
	appsDomain := src.LocalDomain
	if src.UseAppsSubdomain {
		appsDomain = src.AppsSubdomain + "." + src.LocalDomain
	}
	return Symbols{
		EnvName:          src.EnvName,
		LocalDomain:      src.LocalDomain,
		LocalIP:          src.LocalIP,
		RegistryName:     src.RegistryName,
		RegistryHost:     src.RegistryName + "." + src.LocalDomain,
		AppsSubdomain:    src.AppsSubdomain,
		UseAppsSubdomain: strconv.FormatBool(src.UseAppsSubdomain),
		LocalAppsDomain:  appsDomain,
	}
}
