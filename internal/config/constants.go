package config

// Default paths and names
const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./freearch.db"

	// DefaultStorageDir is where uploaded thumbnails are kept by the local backend
	DefaultStorageDir = "./uploads"

	// DefaultTokenIssuer is placed in the "iss" claim of every token
	DefaultTokenIssuer = "freearch"

	// APIPrefix is the path every API route is mounted under
	APIPrefix = "/FreeArch"
)
