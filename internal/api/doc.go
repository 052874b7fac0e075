// Package api provides the HTTP handlers for the task management API.
package api
