// Package secrets generates credentials for charts that need them.
//
// Every call produces fresh random material from crypto/rand; nothing is
// cached or persisted here. Callers generate once per service per run and
// keep the result.
package secrets

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path"

	"golang.org/x/crypto/bcrypt"

	"github.com/salsadigitalauorg/tidepool/pkg/values"
)

// DefaultLength is the length of generated passwords.
const DefaultLength = 24

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!#%+-=_"

// GeneratePassword returns a password of the given length drawn uniformly
// from letters, digits and a few punctuation characters.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid password length %d", length)
	}
	size := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("unable to read random source: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// Auth is the generated material for one service: the values to merge into
// the chart and the plain credentials to hand back to the user.
type Auth struct {
	Values      values.Tree
	Credentials map[string]string
}

// Generator produces chart auth values.
type Generator struct {
	Length int
}

// NewGenerator returns a Generator; a non-positive length means
// DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{Length: length}
}

// ChartFamily is the final path segment of a chart reference, e.g. mysql
// for groundhog2k/mysql.
func ChartFamily(chart string) string {
	return path.Base(chart)
}

// ChartAuthConfig returns the auth values for a chart. Unknown chart
// families get an empty tree.
func (g *Generator) ChartAuthConfig(service, chart string) (values.Tree, error) {
	a, err := g.ChartAuth(service, chart)
	if err != nil {
		return nil, err
	}
	return a.Values, nil
}

// ChartAuth returns the auth values and plain credentials for a chart.
func (g *Generator) ChartAuth(service, chart string) (Auth, error) {
	family := ChartFamily(chart)
	gen, ok := families[family]
	if !ok {
		return Auth{Values: values.Tree{}}, nil
	}
	a, err := gen(g, service)
	if err != nil {
		return Auth{}, fmt.Errorf("unable to generate auth for %s (%s): %w", service, family, err)
	}
	if a.Values == nil {
		a.Values = values.Tree{}
	}
	return a, nil
}

func (g *Generator) password() (string, error) {
	return GeneratePassword(g.Length)
}

// htpasswdEntry returns a user:bcrypt-hash line as read by the registry's
// htpasswd auth.
func htpasswdEntry(user, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return user + ":" + string(hash), nil
}
