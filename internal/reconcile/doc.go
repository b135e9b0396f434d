// Package reconcile matches media files to game sessions by time interval and
// lazily provisions per-game storage folders.
//
// Each game's window is [start-leeway, end+leeway] with inclusive bounds. The
// first match for a game triggers folder provisioning before the move; when
// provisioning fails the game's matches are discarded for the run rather than
// guessed (fail closed). Move failures are reported and never abort the pass.
// Parent folder selection uses a prefix lookup table built once per run from
// the period folders under the configured parent root.
package reconcile
