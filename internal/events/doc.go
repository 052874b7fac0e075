// Package events provides the event types and dispatch mechanism that
// decouple the task workflow from notification delivery. The emitter is an
// explicit capability injected into services by constructor; there is no
// global event bus.
package events
