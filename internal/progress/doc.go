// Package progress simulates a human-legible completion percentage for a
// generation request whose real progress is unknown.
//
// A Simulator owns at most one ticker goroutine. The goroutine is started by
// Begin and is stopped and joined before Complete, Fail, Halt or Close return,
// so no tick can land after a terminal transition.
package progress
