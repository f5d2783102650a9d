package vars

import (
	"strings"

	"github.com/salsadigitalauorg/tidepool/pkg/values"
)

// Older descriptors spelled the apps domain in one of two ways. Both are
// rewritten to ${local-apps-domain}, which honours use-apps-subdomain.
var legacyAppsDomain = strings.NewReplacer(
	"${"+AppsSubdomain+"}.${"+LocalDomain+"}", "${"+LocalAppsDomain+"}",
	"${apps-domain}", "${"+LocalAppsDomain+"}",
)

// RewriteLegacyHost rewrites the legacy apps domain spellings in a host.
func RewriteLegacyHost(host string) string {
	return legacyAppsDomain.Replace(host)
}

// RewriteLegacyIngressHosts rewrites ingress host and TLS host entries of a
// chart values tree in place and returns it. Both a single ingress block
// (ingress.hosts, ingress.tls) and named ingresses (ingress.<name>.hosts)
// are handled.
func RewriteLegacyIngressHosts(t values.Tree) values.Tree {
	ing, ok := values.AsTree(t["ingress"])
	if !ok {
		return t
	}

	if isIngressBlock(ing) {
		rewriteIngress(ing)
	} else {
		for name, v := range ing {
			block, ok := values.AsTree(v)
			if !ok {
				continue
			}
			rewriteIngress(block)
			ing[name] = map[string]interface{}(block)
		}
	}
	t["ingress"] = map[string]interface{}(ing)
	return t
}

func isIngressBlock(m values.Tree) bool {
	return m.Has("hosts") || m.Has("tls")
}

func rewriteIngress(block values.Tree) {
	if hosts, ok := block["hosts"].([]interface{}); ok {
		for i, h := range hosts {
			switch host := h.(type) {
			case string:
				hosts[i] = RewriteLegacyHost(host)
			default:
				entry, ok := values.AsTree(h)
				if !ok {
					continue
				}
				if s, ok := entry["host"].(string); ok {
					entry["host"] = RewriteLegacyHost(s)
				}
				hosts[i] = map[string]interface{}(entry)
			}
		}
	}

	if tls, ok := block["tls"].([]interface{}); ok {
		for i, item := range tls {
			entry, ok := values.AsTree(item)
			if !ok {
				continue
			}
			if hosts, ok := entry["hosts"].([]interface{}); ok {
				for j, h := range hosts {
					if s, ok := h.(string); ok {
						hosts[j] = RewriteLegacyHost(s)
					}
				}
			}
			tls[i] = map[string]interface{}(entry)
		}
	}
}
