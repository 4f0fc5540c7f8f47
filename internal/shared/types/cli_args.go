package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	DSN             string
	Input           string
	Table           string
	EventsTable     string
	Interval        string
	StartAt         string
	TimestampField  string
	ActivationField string
	ReportName      string
	ReportType      []string
	Dir             string
	Separator       string
}
