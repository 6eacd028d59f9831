package cfg

import "path/filepath"

type Cfg struct {
	// Storage configuration
	DBPath  string
	DataDir string

	// Rule and catalog configuration
	ConfigDir string
	RulesFile string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	StaleAfter        int
	MaxAgeDays        int
	APIAccessKey      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// CompaniesFile returns the path of the tracked-company catalog.
func (c *Cfg) CompaniesFile() string {
	return filepath.Join(c.ConfigDir, "companies.json")
}

// SourcesFile returns the path of the monitored-sources list.
func (c *Cfg) SourcesFile() string {
	return filepath.Join(c.ConfigDir, "sources.json")
}
