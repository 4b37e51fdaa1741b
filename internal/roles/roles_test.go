package roles

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/internal/errors"
)

const smallCatalog = `categories:
  - name: Engineering
    roles:
      - name: Backend Developer
        description: Builds services
        required_skills: [Go, golang, " SQL ", Kubernetes]
      - name: Frontend Developer
        description: Builds UIs
        required_skills: [React, CSS]
  - name: Data
    roles:
      - name: Data Engineer
        description: Builds pipelines
        required_skills: [Python, SQL]
`

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Categories())
	assert.Greater(t, c.Len(), 10)

	role, err := c.Lookup("", "backend developer")
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", role.Name)
	assert.Equal(t, "Software Development and Engineering", role.Category)
	assert.Contains(t, role.RequiredSkills, "go")
	require.NotEmpty(t, role.Courses)
	for _, r := range c.List("") {
		for _, course := range r.Courses {
			assert.NotEmpty(t, course.Title, r.Name)
			assert.Regexp(t, `^https://`, course.URL, r.Name)
		}
	}
}

func TestParseCourses(t *testing.T) {
	c, err := Parse([]byte(`categories:
  - name: Engineering
    roles:
      - name: Backend Developer
        required_skills: [Go]
        courses:
          - title: "  A Tour of Go "
            url: https://go.dev/tour/
      - name: Frontend Developer
        required_skills: [React]
`))
	require.NoError(t, err)

	role, err := c.Lookup("", "Backend Developer")
	require.NoError(t, err)
	require.Len(t, role.Courses, 1)
	assert.Equal(t, "A Tour of Go", role.Courses[0].Title)

	role.Courses[0].Title = "mutated"
	again, _ := c.Lookup("", "Backend Developer")
	assert.Equal(t, "A Tour of Go", again.Courses[0].Title)

	frontend, _ := c.Lookup("", "Frontend Developer")
	assert.Empty(t, frontend.Courses)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"Engineering", "Data"}, c.Categories())
	assert.Equal(t, 3, c.Len())

	role, err := c.Lookup("engineering", "Backend Developer")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql", "kubernetes"}, role.RequiredSkills)

	assert.Len(t, c.List("Data"), 1)
	assert.Len(t, c.List(""), 3)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"not yaml":        "categories: [",
		"no categories":   "categories: []",
		"unnamed role":    "categories:\n  - name: A\n    roles:\n      - description: x\n",
		"duplicate role":  "categories:\n  - name: A\n    roles:\n      - name: X\n      - name: x\n",
		"duplicate group": "categories:\n  - name: A\n  - name: A\n",
		"course no title": "categories:\n  - name: A\n    roles:\n      - name: X\n        courses:\n          - url: https://example.com/go\n",
		"course bad url":  "categories:\n  - name: A\n    roles:\n      - name: X\n        courses:\n          - title: Go\n            url: example.com/go\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLookupUnknownRole(t *testing.T) {
	c, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	_, err = c.Lookup("Data", "Backend Developer")
	assert.True(t, errors.HasCode(err, errors.ErrCodeRoleNotFound))
}

func TestLookupReturnsCopy(t *testing.T) {
	c, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	role, _ := c.Lookup("", "Data Engineer")
	role.RequiredSkills[0] = "mutated"

	again, _ := c.Lookup("", "Data Engineer")
	assert.Equal(t, "python", again.RequiredSkills[0])
}

func TestRegistryReloadKeepsCatalogOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	reg, err := NewRegistry(path, errors.Discard())
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	require.NoError(t, os.WriteFile(path, []byte("categories: ["), 0o600))
	assert.Error(t, reg.Reload())
	assert.Equal(t, 3, reg.Len())

	updated := smallCatalog + "      - name: Analytics Engineer\n        required_skills: [dbt]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	require.NoError(t, reg.Reload())
	assert.Equal(t, 4, reg.Len())
}

func TestNewRegistryDefault(t *testing.T) {
	reg, err := NewRegistry("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), reg.Len())
	assert.NoError(t, reg.Reload())
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	reg, err := NewRegistry(path, errors.Discard())
	require.NoError(t, err)

	reloaded := make(chan error, 4)
	w, err := NewWatcher(reg, 20*time.Millisecond, func(err error) { reloaded <- err }, errors.Discard())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	// Make sure the new mtime differs on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	updated := smallCatalog + "      - name: Analytics Engineer\n        required_skills: [dbt]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("catalog was not reloaded")
	}
	assert.Equal(t, 4, reg.Len())
}

func TestNewWatcherRequiresFile(t *testing.T) {
	reg, err := NewRegistry("", nil)
	require.NoError(t, err)
	_, err = NewWatcher(reg, 0, nil, nil)
	assert.Error(t, err)
}
