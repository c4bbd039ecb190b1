package config

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`

	// Tool calls are handled by a fixed pool of workers fed by a queue.
	Workers   int `yaml:"workers" toml:"workers"`
	QueueSize int `yaml:"queue_size" toml:"queue_size"`

	// Instructions are sent to the client at initialize.
	Instructions string `yaml:"instructions" toml:"instructions"`
}

// ToolsConfig selects which tools are advertised.
type ToolsConfig struct {
	Disabled []string `yaml:"disabled" toml:"disabled"`
}
