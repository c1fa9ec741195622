// Package generation defines the boundary between the post generation core
// and the hosted AI models it calls. It holds the ports the orchestrator
// depends on (text, image, cover and topic generation) and the closed
// taxonomy every provider failure is classified into before it reaches a
// caller.
package generation
