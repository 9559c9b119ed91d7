// Package config aggregates the partial configurations of all core
// packages into one application Config.
//
// Values come from environment variables (with an optional .env file
// loaded via godotenv), mapped onto nested keys by Viper: SERVER_PORT
// becomes server.port. Defaults are declared as struct tags on the
// partial Config types and registered recursively via reflection.
package config
