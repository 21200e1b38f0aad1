package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules
	MigrationSourceURL string // location of migration files (empty: embedded)
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry
	TelemetryOutput    string // otlp or stdout
	ProfilingPort      int    // port for profiling
	ServerAddr         string // listen addr for the HTTP server
	AdminToken         string // token for admin access
	JolpicaURL         string // base url of the jolpica api
	NatsURL            string // url of the nats server, empty disables publishing
	CacheExpiration    string // how long computed states are kept
)

// DefaultSeasons are the seasons with a playoff calendar
var DefaultSeasons = []int{2024, 2025, 2026}
