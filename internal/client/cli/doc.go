// Package cli implements the myday command line.
//
// Every command opens the local store, wires the services against the
// configured remote backend and closes everything on exit. Closing waits
// for background pushes started by the command, so a short-lived process
// does not drop them.
//
//	myday entry add --title "Monday" --date yesterday < body.txt
//	myday entry list
//	myday trash list
//	myday link add https://youtu.be/xyz --platform youtube
//	myday sync
//	myday watch entries
package cli
