package types

// Config represents the application configuration that can be loaded from a file.
// Unknown keys are rejected by the loader (strict decoding).
type Config struct {
	DSN             string   `json:"dsn" yaml:"dsn" toml:"dsn"`
	Input           string   `json:"input" yaml:"input" toml:"input"`
	Table           string   `json:"table" yaml:"table" toml:"table"`
	EventsTable     string   `json:"events_table" yaml:"events_table" toml:"events_table"`
	Interval        string   `json:"interval" yaml:"interval" toml:"interval"`
	StartAt         string   `json:"start_at" yaml:"start_at" toml:"start_at"`
	TimestampField  string   `json:"timestamp_field" yaml:"timestamp_field" toml:"timestamp_field"`
	ActivationField string   `json:"activation_field" yaml:"activation_field" toml:"activation_field"`
	ReportName      string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType      []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir             string   `json:"dir" yaml:"dir" toml:"dir"`
	Separator       string   `json:"separator" yaml:"separator" toml:"separator"`
}
