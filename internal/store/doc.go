// Package store defines the persistence interfaces and errors for the
// application's entities.
package store
