// Package viz is the live terminal front end of the sandbox.
//
// Bodies and their trails are drawn on a braille [Canvas], so every
// terminal cell holds 2x4 sub-pixels and the sandbox viewport is measured
// in sub-pixels. Mouse and keyboard events are forwarded to the sandbox:
//
//	drag        - pan, or grab and fling a body
//	wheel       - zoom around the pointer
//	space       - pause/resume
//	+ / -       - speed level up/down (negative levels run backwards)
//	x           - delete the body under the pointer
//	f           - follow the last grabbed body
//	r           - reload the scene
//	q           - quit
package viz
