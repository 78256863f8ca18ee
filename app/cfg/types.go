package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// News provider configuration
	NewsAPIURL      string
	NewsAPIKey      string
	NewsAPIPageSize int

	// Ingestion configuration
	PollingEnabled      bool
	PollIntervalMs      int
	MaxArticlesPerCycle int
	SourcesDir          string
	ExtractContent      bool

	// Sentiment configuration
	SentimentEngine string

	// Application configuration
	Port        string
	WorkerCount int
	RedisAddr   string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
