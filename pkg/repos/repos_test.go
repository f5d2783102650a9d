package repos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holder struct {
	name string
	repo *Repository
}

func (h *holder) ServiceName() string         { return h.name }
func (h *holder) Repository() *Repository     { return h.repo }
func (h *holder) SetRepository(r *Repository) { h.repo = r }

var central = []Repository{
	{Name: "bjw-s", URL: "https://example/charts"},
	{Name: "groundhog2k", URL: "https://groundhog2k.github.io/helm-charts/"},
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("a", &Repository{Name: "n", URL: "u"}))
	assert.NoError(t, Validate("a", &Repository{Ref: "bjw-s"}))

	for _, r := range []*Repository{nil, {}, {Name: "only-name"}, {URL: "only-url"}} {
		err := Validate("web", r)
		var merr *MissingRepositoryError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "web", merr.Service)
	}
}

// =============================================================================
// ResolveRefs Tests
// =============================================================================

func TestResolveRefs(t *testing.T) {
	h := &holder{name: "web", repo: &Repository{Ref: "bjw-s"}}

	require.NoError(t, ResolveRefs([]Holder{h}, central))

	assert.Equal(t, &Repository{Name: "bjw-s", URL: "https://example/charts"}, h.repo)
}

func TestResolveRefs_CopiesEntry(t *testing.T) {
	c := []Repository{{Name: "bjw-s", URL: "https://example/charts"}}
	h := &holder{name: "web", repo: &Repository{Ref: "bjw-s"}}
	require.NoError(t, ResolveRefs([]Holder{h}, c))

	h.repo.URL = "changed"
	assert.Equal(t, "https://example/charts", c[0].URL)
}

func TestResolveRefs_Unresolved(t *testing.T) {
	h := &holder{name: "web", repo: &Repository{Ref: "missing"}}

	err := ResolveRefs([]Holder{h}, central)

	var uerr *UnresolvedReferenceError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "web", uerr.Service)
	assert.Equal(t, "missing", uerr.Ref)
}

func TestResolveRefs_LeavesConcreteAndNil(t *testing.T) {
	concrete := &holder{name: "a", repo: &Repository{Name: "x", URL: "https://x"}}
	none := &holder{name: "b"}

	require.NoError(t, ResolveRefs([]Holder{concrete, none}, central))

	assert.Equal(t, &Repository{Name: "x", URL: "https://x"}, concrete.repo)
	assert.Nil(t, none.repo)
}

// =============================================================================
// Collect Tests
// =============================================================================

func TestCollect(t *testing.T) {
	hs := []Holder{
		&holder{name: "a", repo: &Repository{Name: "bitnami", URL: "https://charts.bitnami.com/bitnami"}},
		&holder{name: "b", repo: &Repository{Ref: "unresolved"}},
		&holder{name: "c"},
	}

	got := Collect(central, hs)

	assert.Equal(t, map[string]string{
		"bjw-s":       "https://example/charts",
		"groundhog2k": "https://groundhog2k.github.io/helm-charts/",
		"bitnami":     "https://charts.bitnami.com/bitnami",
	}, got)
}

func TestCollect_LastWriterWins(t *testing.T) {
	hs := []Holder{
		&holder{name: "a", repo: &Repository{Name: "bjw-s", URL: "https://mirror/charts"}},
	}
	got := Collect(central, hs)
	assert.Equal(t, "https://mirror/charts", got["bjw-s"])
}

func TestDuplicateCentralNames_LastEntryWins(t *testing.T) {
	dup := []Repository{
		{Name: "bjw-s", URL: "https://old/charts"},
		{Name: "bjw-s", URL: "https://new/charts"},
	}
	h := &holder{name: "web", repo: &Repository{Ref: "bjw-s"}}

	require.NoError(t, ResolveRefs([]Holder{h}, dup))
	assert.Equal(t, "https://new/charts", h.repo.URL)

	assert.Equal(t, map[string]string{"bjw-s": "https://new/charts"}, Collect(dup, nil))
}
