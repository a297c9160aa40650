// Package cli implements the interactive Loanwise client: a small REPL on
// top of the session manager, the draft builder and the application
// lifecycle service. Navigation between screens goes through the route
// guard, mirroring how the web frontend gates its pages.
package cli
