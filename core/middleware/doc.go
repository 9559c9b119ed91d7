// Package middleware groups the Fiber middlewares of the application.
// Currently this is only the ray id middleware for request correlation.
package middleware
