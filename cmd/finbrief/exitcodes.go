package main

// Exit codes used by all finbrief commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing API key, bad config)
	ExitDataError   = 3 // Data error (unreadable document, validation failure)
	ExitTimeout     = 4 // Model API timeout
	ExitAPIError    = 5 // Model API failure after retries
)
