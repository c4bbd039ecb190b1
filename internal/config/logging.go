package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level     string `yaml:"level" toml:"level"`           // debug, info, warn, error
	Format    string `yaml:"format" toml:"format"`         // json, console
	File      string `yaml:"file" toml:"file"`             // extra output besides stderr
	AuditFile string `yaml:"audit_file" toml:"audit_file"` // JSON lines, one per tool call and process event
}
