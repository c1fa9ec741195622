// Package service contains the application-specific use cases and business
// logic. It orchestrates the generation ports (defined in internal/generation)
// to turn a user submission into a post and its cover.
//
// Key components:
//
// 1. GenerationService:
//   - Accepts at most one generation request at a time
//   - Re-checks provider readiness before every request
//   - Runs text generation, then cover resolution, strictly in sequence
//   - Drives the progress simulator and guarantees its timer is stopped on
//     every exit path
//
// 2. Error Handling:
//   - Provider failures leave the service as *generation.ProviderError values
//   - UserMessage derives the text shown to the user from an error
//
// The service layer depends on domain entities and port interfaces, never on
// specific infrastructure implementations.
package service
