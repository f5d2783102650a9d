package secrets

import "github.com/salsadigitalauorg/tidepool/pkg/values"

type familyFunc func(g *Generator, service string) (Auth, error)

// families maps a chart's base name to its auth generator.
var families = map[string]familyFunc{
	"mysql":           rootPasswordSetting("rootPassword"),
	"mariadb":         rootPasswordSetting("rootPassword"),
	"postgres":        rootPasswordSetting("superuserPassword"),
	"postgresql":      bitnamiAuth("postgresPassword"),
	"mongodb":         bitnamiAuth("rootPassword"),
	"rabbitmq":        rabbitmq,
	"minio":           minio,
	"docker-registry": registry,
	// No secret, only the flag that keeps the chart from generating one.
	"redis":     fixed(values.Tree{"auth": map[string]interface{}{"enabled": false}}),
	"valkey":    fixed(values.Tree{"auth": map[string]interface{}{"enabled": false}}),
	"memcached": fixed(values.Tree{}),
}

// rootPasswordSetting covers the groundhog2k database charts, which take
// settings.<field>.value.
func rootPasswordSetting(field string) familyFunc {
	return func(g *Generator, service string) (Auth, error) {
		pw, err := g.password()
		if err != nil {
			return Auth{}, err
		}
		return Auth{
			Values:      values.FromPath(pw, "settings", field, "value"),
			Credentials: map[string]string{field: pw},
		}, nil
	}
}

// bitnamiAuth covers charts that take auth.<field>.
func bitnamiAuth(field string) familyFunc {
	return func(g *Generator, service string) (Auth, error) {
		pw, err := g.password()
		if err != nil {
			return Auth{}, err
		}
		return Auth{
			Values:      values.FromPath(pw, "auth", field),
			Credentials: map[string]string{field: pw},
		}, nil
	}
}

func rabbitmq(g *Generator, service string) (Auth, error) {
	pw, err := g.password()
	if err != nil {
		return Auth{}, err
	}
	cookie, err := g.password()
	if err != nil {
		return Auth{}, err
	}
	return Auth{
		Values: values.Tree{"auth": map[string]interface{}{
			"username":     service,
			"password":     pw,
			"erlangCookie": cookie,
		}},
		Credentials: map[string]string{"username": service, "password": pw},
	}, nil
}

func minio(g *Generator, service string) (Auth, error) {
	pw, err := g.password()
	if err != nil {
		return Auth{}, err
	}
	return Auth{
		Values: values.Tree{"auth": map[string]interface{}{
			"rootUser":     "admin",
			"rootPassword": pw,
		}},
		Credentials: map[string]string{"rootUser": "admin", "rootPassword": pw},
	}, nil
}

// registry generates a single htpasswd user for the docker-registry chart.
func registry(g *Generator, service string) (Auth, error) {
	pw, err := g.password()
	if err != nil {
		return Auth{}, err
	}
	entry, err := htpasswdEntry(service, pw)
	if err != nil {
		return Auth{}, err
	}
	return Auth{
		Values:      values.FromPath(entry, "secrets", "htpasswd"),
		Credentials: map[string]string{"username": service, "password": pw},
	}, nil
}

func fixed(v values.Tree) familyFunc {
	return func(g *Generator, service string) (Auth, error) {
		return Auth{Values: values.Copy(v)}, nil
	}
}
