package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/visara/backend/internal/domain"
)

// profilesFile is the on-disk YAML shape of the category reference table
type profilesFile struct {
	Profiles []domain.CategoryProfile `yaml:"profiles"`
}

// Repository holds the category profile reference table. Loaded once at
// process start and read-only afterwards.
type Repository struct {
	profiles map[string]*domain.CategoryProfile
}

// Load reads the category profile table from a YAML file.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file %s contains no profiles", path)
	}

	profiles := make(map[string]*domain.CategoryProfile, len(file.Profiles))
	for i := range file.Profiles {
		p := &file.Profiles[i]
		if p.Category == "" {
			return nil, fmt.Errorf("profile %d has no category name", i)
		}
		if p.ReferenceText == "" {
			p.ReferenceText = synthesizeReferenceText(p)
		}
		profiles[normalizeCategory(p.Category)] = p
	}

	return &Repository{profiles: profiles}, nil
}

// Profile resolves the reference data for a category (case-insensitive).
func (r *Repository) Profile(category string) (*domain.CategoryProfile, error) {
	if category == "" {
		return nil, domain.ErrInvalidRequest
	}

	p, ok := r.profiles[normalizeCategory(category)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrProfileNotFound, category)
	}
	return p, nil
}

// Categories lists the known category names in sorted order.
func (r *Repository) Categories() []string {
	names := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		names = append(names, p.Category)
	}
	sort.Strings(names)
	return names
}

// synthesizeReferenceText builds a category-representative text for the
// semantic signal when the profile does not carry one explicitly.
func synthesizeReferenceText(p *domain.CategoryProfile) string {
	parts := []string{p.Category}
	parts = append(parts, p.ExpectedKeywords...)
	for _, attr := range p.RequiredAttributes {
		parts = append(parts, attr.Name)
	}
	return strings.Join(parts, " ")
}

// normalizeCategory lowercases and trims a category name for lookup
func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
