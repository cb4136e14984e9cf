// Package game implements the Texas Hold'em hand state machine: dealing,
// blinds, betting rounds, street advancement and pot resolution. A Table is
// not safe for concurrent use; callers serialize access to it.
package game
