package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid paths)
	ExitDataError   = 3 // Dataset missing or malformed, stale index
	ExitNotFound    = 4 // No store with the given id or POS key
)
