package verify

// CommandConfiguration captures configuration values for the verify command.
type CommandConfiguration struct {
	LiveRun bool `mapstructure:"live_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for verification.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{LiveRun: false}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + ".live_run": false,
	}
}
