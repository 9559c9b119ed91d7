// Package server holds the HTTP server configuration, including the
// cron specs for the background snapshot refresh and deletion purge.
package server
