// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose coupling
// between components in the system. The generation service emits progress events without
// knowing whether they end up in a log, a server-sent event stream or a terminal.
//
// The primary components are:
// - ProgressEvent: A snapshot of a request's progress at one point in time
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
