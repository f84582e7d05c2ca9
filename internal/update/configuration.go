package update

import "strings"

const (
	defaultOrganizationConstant      = "rdkcentral"
	organizationConfigurationKeyPart = ".organization"
)

// CommandConfiguration captures configuration values for the update command.
type CommandConfiguration struct {
	Organization string `mapstructure:"organization"`
	DryRun       bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for updates.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Organization: defaultOrganizationConstant,
		DryRun:       false,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + organizationConfigurationKeyPart: defaultOrganizationConstant,
	}
}

// Sanitize trims configuration values, falling back to the default organization.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	if len(sanitized.Organization) == 0 {
		sanitized.Organization = defaultOrganizationConstant
	}
	return sanitized
}
