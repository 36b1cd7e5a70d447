package server

// Config is the HTTP server configuration.
type Config struct {
	// Address to listen on (e.g., ":8787")
	ListenAddr string

	// CORSOrigins is a comma separated list of origins allowed to call the
	// API from a browser, or "*" for any.
	CORSOrigins string

	// Locale selects the failure message of session turns.
	Locale string
}
