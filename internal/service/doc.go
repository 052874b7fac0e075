// Package service implements the application's business workflows: user
// registration through the messenger directory and the task ownership,
// delegation and completion workflow.
package service
