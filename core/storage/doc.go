// Package storage provides the object storage client used for the
// historical archive.
//
// It wraps the Minio S3 client behind a small interface so the archive
// cache and the archive generation command can be tested against mocks.
// The concrete client carries strict transport timeouts; per-operation
// deadlines come from the caller's context.
package storage
