package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	DefaultLimit      int
	MaxLimit          int
	DigestSize        int

	// Response cache
	RedisAddr       string
	CacheTTLSeconds int

	// AI summarization
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
