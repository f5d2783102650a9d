package templates

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/salsadigitalauorg/tidepool/pkg/composer"
	"github.com/salsadigitalauorg/tidepool/pkg/descriptor"
	"github.com/salsadigitalauorg/tidepool/pkg/presets"
	"github.com/salsadigitalauorg/tidepool/pkg/secrets"
	"github.com/salsadigitalauorg/tidepool/pkg/vars"
)

const environment = `
environment:
  name: dev
  local-ip: 127.0.0.1
  local-domain: dev.local
  use-apps-subdomain: true
  base-dir: /envs
  kubernetes:
    api-port: 6443
    image: kindest/node
    tag: v1.31.2
  nodes:
    control-planes: 1
    workers: 2
  provider:
    name: kind
  registry:
    name: registry
  internal-components:
    - nginx-ingress: 4.11.3
  helm-repositories:
    - name: groundhog2k
      url: https://groundhog2k.github.io/helm-charts
  deploy-metrics-server: true
  services:
    - name: mysql
      enabled: true
      storage:
        size: 10Gi
      chart: groundhog2k/mysql
      repo:
        ref: groundhog2k
  user-services:
    - name: web
      enabled: true
      chart: groundhog2k/nginx
      repo:
        ref: groundhog2k
      config:
        values:
          ingress:
            hosts:
              - host: web.${local-apps-domain}
`

func testContext(t *testing.T) *composer.Context {
	t.Helper()
	env, err := descriptor.Parse([]byte(environment))
	require.NoError(t, err)
	catalog, err := presets.Load()
	require.NoError(t, err)

	ctx, err := composer.Compose(env, composer.Options{
		Catalog:  catalog,
		Secrets:  secrets.NewGenerator(0),
		Expander: &vars.Expander{},
	})
	require.NoError(t, err)
	return ctx
}

func renderYAML(t *testing.T, name string, ctx *composer.Context) map[string]interface{} {
	t.Helper()
	out, err := NewRenderer(nil).Render(name, ctx)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc), out)
	return doc
}

// =============================================================================
// Embedded Template Tests
// =============================================================================

func TestRender_KindCluster(t *testing.T) {
	doc := renderYAML(t, "kind/cluster.yaml.tmpl", testContext(t))

	assert.Equal(t, "dev", doc["name"])
	nodes := doc["nodes"].([]interface{})
	require.Len(t, nodes, 3)

	cp := nodes[0].(map[string]interface{})
	assert.Equal(t, "control-plane", cp["role"])
	assert.Equal(t, "kindest/node:v1.31.2", cp["image"])

	// 80, 443, mysql and dns.
	ports := cp["extraPortMappings"].([]interface{})
	require.Len(t, ports, 4)
	assert.Equal(t, 3306, ports[2].(map[string]interface{})["hostPort"])
	assert.Equal(t, "UDP", ports[3].(map[string]interface{})["protocol"])

	mounts := cp["extraMounts"].([]interface{})
	require.Len(t, mounts, 3)
	assert.Equal(t, "/envs/dev/logs", mounts[0].(map[string]interface{})["hostPath"])
	assert.Equal(t, "/etc/ssl/certs/mkcert-ca.pem", mounts[2].(map[string]interface{})["containerPath"])

	assert.Equal(t, "worker", nodes[1].(map[string]interface{})["role"])
	assert.NotContains(t, nodes[1], "extraPortMappings")
}

func TestRender_Helmfile(t *testing.T) {
	ctx := testContext(t)
	doc := renderYAML(t, "helmfile/helmfile.yaml.tmpl", ctx)

	var names []string
	for _, r := range doc["repositories"].([]interface{}) {
		names = append(names, r.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"ingress-nginx", "jetstack", "bjw-s", "metrics-server", "groundhog2k"}, names)

	releases := doc["releases"].([]interface{})
	byName := map[string]map[string]interface{}{}
	for _, r := range releases {
		m := r.(map[string]interface{})
		byName[m["name"].(string)] = m
	}
	require.Contains(t, byName, "mysql")
	require.Contains(t, byName, "web")
	require.Contains(t, byName, "metrics-server")
	assert.Equal(t, "4.11.3", byName["ingress-nginx"]["version"])

	mysql := byName["mysql"]["values"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "10Gi", mysql["storage"].(map[string]interface{})["requestedSize"])
	pw := mysql["settings"].(map[string]interface{})["rootPassword"].(map[string]interface{})["value"]
	assert.Equal(t, ctx.SystemServices[0].Credentials["rootPassword"], pw)

	tcp := byName["ingress-nginx"]["values"].([]interface{})[0].(map[string]interface{})["tcp"].(map[string]interface{})
	assert.Equal(t, "mysql/mysql:3306", tcp["3306"])
}

func TestRender_ServicesOnWorkersOnly(t *testing.T) {
	ctx := testContext(t)
	ctx.RunServicesOnWorkersOnly = true

	kind := renderYAML(t, "kind/cluster.yaml.tmpl", ctx)
	nodes := kind["nodes"].([]interface{})
	assert.NotContains(t, nodes[0], "labels")
	for _, n := range nodes[1:] {
		labels := n.(map[string]interface{})["labels"].(map[string]interface{})
		assert.Equal(t, "true", labels[composer.ServicesNodeLabel])
	}

	helmfile := renderYAML(t, "helmfile/helmfile.yaml.tmpl", ctx)
	byName := map[string]map[string]interface{}{}
	for _, r := range helmfile["releases"].([]interface{}) {
		m := r.(map[string]interface{})
		byName[m["name"].(string)] = m
	}
	for _, name := range []string{"mysql", "web"} {
		vals := byName[name]["values"].([]interface{})
		require.Len(t, vals, 2, name)
		selector := vals[1].(map[string]interface{})["nodeSelector"].(map[string]interface{})
		assert.Equal(t, "true", selector[composer.ServicesNodeLabel], name)
	}
	assert.Len(t, byName["cert-manager"]["values"].([]interface{}), 1)
}

func TestRender_ServicesAnywhereByDefault(t *testing.T) {
	doc := renderYAML(t, "helmfile/helmfile.yaml.tmpl", testContext(t))
	for _, r := range doc["releases"].([]interface{}) {
		m := r.(map[string]interface{})
		assert.Len(t, m["values"].([]interface{}), 1, m["name"])
	}
}

func TestRender_PlainTextTemplates(t *testing.T) {
	ctx := testContext(t)
	r := NewRenderer(nil)

	dns, err := r.Render("dnsmasq/config.conf.tmpl", ctx)
	require.NoError(t, err)
	assert.Contains(t, dns, "port=53\n")
	assert.Contains(t, dns, "address=/dev.local/127.0.0.1\n")

	containerd, err := r.Render("containerd/config.toml.tmpl", ctx)
	require.NoError(t, err)
	assert.Contains(t, containerd, `server = "https://registry.dev.local"`)

	issuer, err := r.Render("cert-manager/cluster-issuer.yaml.tmpl", ctx)
	require.NoError(t, err)
	assert.Contains(t, issuer, `"*.apps.dev.local"`)
}

// =============================================================================
// Error Tests
// =============================================================================

func memTemplates(t *testing.T, files map[string]string) *Renderer {
	t.Helper()
	afs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(afs, filepath.Join("/tpl", name), []byte(content), 0644))
	}
	return NewRenderer(FromDir(afs, "/tpl"))
}

func TestRender_ParseErrorHasLocation(t *testing.T) {
	r := memTemplates(t, map[string]string{"bad.tmpl": "ok\n{{ if }}\n"})

	_, err := r.Render("bad.tmpl", nil)
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "bad.tmpl", rerr.Template)
	assert.Equal(t, "2", rerr.Location)
}

func TestRender_ExecErrorHasLocation(t *testing.T) {
	r := memTemplates(t, map[string]string{"bad.tmpl": "{{ .Nope }}"})

	_, err := r.Render("bad.tmpl", testContext(t))
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "1:3", rerr.Location)
	assert.True(t, strings.HasPrefix(rerr.Error(), "template bad.tmpl:1:3:"))
}

func TestRender_MissingTemplate(t *testing.T) {
	_, err := NewRenderer(nil).Render("nope.tmpl", nil)
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "", rerr.Location)
}

func TestRender_OverrideDirectory(t *testing.T) {
	r := memTemplates(t, map[string]string{"dnsmasq/config.conf.tmpl": "{{ .LocalDomain | printf \"%s!\" }}"})

	out, err := r.Render("dnsmasq/config.conf.tmpl", testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "dev.local!", out)
}

// =============================================================================
// Func Map Tests
// =============================================================================

func TestToYaml(t *testing.T) {
	out, err := toYaml(map[string]interface{}{"a": map[string]interface{}{"b": 1}})
	require.NoError(t, err)
	assert.Equal(t, "a:\n  b: 1", out)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", indent(2, "a\nb"))
	assert.Equal(t, "\n    a", nindent(4, "a"))
}

func TestSeq(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, seq(3))
	assert.Empty(t, seq(-1))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "80,443", join(",", []int{80, 443}))
	assert.Equal(t, "a b", join(" ", []string{"a", "b"}))
	assert.Equal(t, "x", join(",", "x"))
}

// =============================================================================
// Writer Tests
// =============================================================================

func TestWriter_Write(t *testing.T) {
	w := &Writer{Fs: afero.NewMemMapFs(), Dir: "/envs/dev/config"}

	dest, err := w.Write("cluster.yaml", "kind: Cluster\n")
	require.NoError(t, err)
	assert.Equal(t, "/envs/dev/config/cluster.yaml", dest)

	data, err := afero.ReadFile(w.Fs, dest)
	require.NoError(t, err)
	assert.Equal(t, "kind: Cluster\n", string(data))
}

func TestWriter_ReadOnlyFs(t *testing.T) {
	w := &Writer{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), Dir: "/envs"}

	_, err := w.Write("cluster.yaml", "x")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	ctx := testContext(t)
	w := &Writer{Fs: afero.NewMemMapFs(), Dir: ctx.ConfigDir}

	written, err := Generate(NewRenderer(nil), w, ctx)
	require.NoError(t, err)
	require.Len(t, written, len(Files))

	for _, f := range Files {
		ok, err := afero.Exists(w.Fs, filepath.Join(ctx.ConfigDir, f.Dest))
		require.NoError(t, err)
		assert.True(t, ok, f.Dest)
	}
}

func TestGenerate_StopsAtFirstFailure(t *testing.T) {
	r := memTemplates(t, map[string]string{"kind/cluster.yaml.tmpl": "ok"})
	w := &Writer{Fs: afero.NewMemMapFs(), Dir: "/out"}

	written, err := Generate(r, w, testContext(t))
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "containerd/config.toml.tmpl", rerr.Template)
	assert.Equal(t, []string{"/out/cluster.yaml"}, written)
}
