package components

import (
	"errors"
	"sort"
	"strings"
)

const (
	emptyRegistryMessageConstant = "component registry is empty"
)

// ErrEmptyRegistry indicates no components were configured.
var ErrEmptyRegistry = errors.New(emptyRegistryMessageConstant)

// Component describes one updatable component and its recipe file.
type Component struct {
	RecipeFile  string `mapstructure:"recipe_file" yaml:"recipe_file"`
	SourceName  string `mapstructure:"source_name" yaml:"source_name"`
	DisplayName string `mapstructure:"display_name" yaml:"display_name"`
}

// Registry maps repository names to their component descriptions.
type Registry struct {
	entries map[string]Component
}

// NewRegistry builds a Registry from configured component entries, discarding
// blank keys and trimming field values.
func NewRegistry(configuredComponents map[string]Component) (*Registry, error) {
	entries := map[string]Component{}
	for componentKey, componentEntry := range configuredComponents {
		trimmedKey := strings.TrimSpace(componentKey)
		if len(trimmedKey) == 0 {
			continue
		}
		entries[trimmedKey] = Component{
			RecipeFile:  strings.TrimSpace(componentEntry.RecipeFile),
			SourceName:  strings.TrimSpace(componentEntry.SourceName),
			DisplayName: strings.TrimSpace(componentEntry.DisplayName),
		}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyRegistry
	}
	return &Registry{entries: entries}, nil
}

// Lookup returns the component registered under the provided repository name.
func (registry *Registry) Lookup(repositoryName string) (Component, bool) {
	componentEntry, exists := registry.entries[strings.TrimSpace(repositoryName)]
	return componentEntry, exists
}

// Keys lists registered repository names in deterministic order.
func (registry *Registry) Keys() []string {
	repositoryNames := make([]string, 0, len(registry.entries))
	for repositoryName := range registry.entries {
		repositoryNames = append(repositoryNames, repositoryName)
	}
	sort.Strings(repositoryNames)
	return repositoryNames
}
