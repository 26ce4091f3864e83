// Package server holds the HTTP server configuration shared by the start command
// and the middleware stack.
package server
