package server

// Server is the lifecycle contract of the sync API process.
//
// RunServer blocks until a termination signal arrives and every listener
// has shut down.
type Server interface {
	// RunServer starts every configured listener and blocks until shutdown.
	RunServer()

	// Shutdown gracefully stops the listeners. In-flight requests are
	// allowed to finish.
	Shutdown()
}
