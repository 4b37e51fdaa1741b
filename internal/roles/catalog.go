// Package roles loads the catalog of target job roles.
package roles

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"resumelens/internal/errors"
	"resumelens/internal/keywords"
	"resumelens/internal/types"
)

//go:embed default_roles.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Categories []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Name  string                 `yaml:"name"`
	Roles []types.RoleDescriptor `yaml:"roles"`
}

// Catalog is an immutable set of roles grouped by category, in file order.
type Catalog struct {
	categories []string
	roles      map[string][]types.RoleDescriptor // category -> roles
}

// Parse builds a catalog from YAML. Role skills are normalized and
// deduplicated; role names must be unique within a category.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to parse role catalog", err)
	}
	if len(file.Categories) == 0 {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "role catalog has no categories", nil)
	}

	c := &Catalog{roles: make(map[string][]types.RoleDescriptor, len(file.Categories))}
	for _, cat := range file.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "role category without a name", nil)
		}
		if _, dup := c.roles[name]; dup {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("duplicate role category %q", name), nil)
		}

		seen := make(map[string]bool, len(cat.Roles))
		roles := make([]types.RoleDescriptor, 0, len(cat.Roles))
		for _, r := range cat.Roles {
			r.Name = strings.TrimSpace(r.Name)
			if r.Name == "" {
				return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
					fmt.Sprintf("role without a name in category %q", name), nil)
			}
			key := strings.ToLower(r.Name)
			if seen[key] {
				return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
					fmt.Sprintf("duplicate role %q in category %q", r.Name, name), nil)
			}
			seen[key] = true

			r.Category = name
			r.RequiredSkills = keywords.NormalizeSkills(r.RequiredSkills)
			if err := checkCourses(r); err != nil {
				return nil, err
			}
			roles = append(roles, r)
		}

		c.categories = append(c.categories, name)
		c.roles[name] = roles
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded role catalog is invalid: %v", err))
	}
	return c
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read role catalog", err).
			WithContext("path", path)
	}
	return Parse(data)
}

func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// List returns roles in one category, or every role when category is empty.
func (c *Catalog) List(category string) []types.RoleDescriptor {
	var out []types.RoleDescriptor
	for _, cat := range c.categories {
		if category != "" && !strings.EqualFold(cat, category) {
			continue
		}
		for _, r := range c.roles[cat] {
			out = append(out, clone(r))
		}
	}
	return out
}

// Lookup finds a role by case-insensitive name. An empty category searches
// every category in order.
func (c *Catalog) Lookup(category, name string) (types.RoleDescriptor, error) {
	name = strings.TrimSpace(name)
	for _, cat := range c.categories {
		if category != "" && !strings.EqualFold(cat, category) {
			continue
		}
		for _, r := range c.roles[cat] {
			if strings.EqualFold(r.Name, name) {
				return clone(r), nil
			}
		}
	}

	err := errors.NewValidationError(errors.ErrCodeRoleNotFound, fmt.Sprintf("unknown role %q", name), nil)
	if category != "" {
		err.WithContext("category", category)
	}
	return types.RoleDescriptor{}, err
}

func (c *Catalog) Len() int {
	n := 0
	for _, roles := range c.roles {
		n += len(roles)
	}
	return n
}

func clone(r types.RoleDescriptor) types.RoleDescriptor {
	r.RequiredSkills = append([]string(nil), r.RequiredSkills...)
	if r.Courses != nil {
		r.Courses = append([]types.Course(nil), r.Courses...)
	}
	return r
}

// checkCourses trims course entries in place and rejects ones without a
// title or an absolute http(s) link.
func checkCourses(r types.RoleDescriptor) error {
	for i := range r.Courses {
		c := &r.Courses[i]
		c.Title = strings.TrimSpace(c.Title)
		c.URL = strings.TrimSpace(c.URL)
		u, err := url.Parse(c.URL)
		if c.Title == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("role %q has an invalid course entry", r.Name), err).
				WithContext("course", c.Title)
		}
	}
	return nil
}
