// Package server wires and runs the application's transport servers.
//
// It starts the HTTP and gRPC listeners of the sync API and stops them
// gracefully once the process receives a termination signal. The gRPC
// listener also refreshes the health service from the catalog database on a
// fixed interval.
package server
