package config

// Default paths for the local backend
const (
	// DefaultDatabasePath is where the embedded SQLite database lives when DATABASE_URL is unset
	DefaultDatabasePath = "./instance/tourism.db"

	// DefaultStaticPath is served under /static
	DefaultStaticPath = "./static"
)
