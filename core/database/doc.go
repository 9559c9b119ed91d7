// Package database manages the MySQL connection for the live event and
// deletion collections. The connection is treated as optional at
// startup: without it the service serves the archived view only.
package database
