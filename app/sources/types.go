package sources

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Label    string         `yaml:"label"`    // Human-readable source name
	Category string         `yaml:"category"` // Default category for uncategorized articles
	Weight   int            `yaml:"weight"`   // Source reputation weight, 0-10
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds
	ExtractSummary  bool `yaml:"extract_summary"` // fetch article pages for summaries
}
