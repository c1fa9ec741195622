// Package gemini adapts Google's Gemini API to the generation ports.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external generative
// models without exposing the details of the external service to the core
// application.
//
// Key components:
//
// 1. Client:
//   - Owns the genai client, the per-call timeout and the optional base URL
//   - Converts every provider failure into a *generation.ProviderError
//   - Reports readiness so a request without an API key fails before any work
//
// 2. TextGenerator:
//   - Renders the post prompt from an embedded or configured template
//   - Requests schema-constrained JSON and repairs truncated output
//   - Sanitizes short fields that the model sometimes prefixes with key names
//
// 3. ImageGenerator:
//   - Requests a 3:4 cover image, optionally conditioned on a reference picture
//
// 4. TopicSuggester:
//   - Asks the text model for related post titles
package gemini
