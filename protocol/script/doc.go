/*
Package script describes the Bitcoin script machine as a compilation
target: the opcode table with each opcode's stack effect, the encoding
of data pushes and script numbers, and conversion between raw programs
and their assembly text.

Assembly text uses opcode names without the OP_ prefix. Small integers
are written in decimal; other data pushes are written as a length
followed by the data, both in hex:

	2 5 ADD 7 EQUAL
	0x03 0x525393
	PUSHDATA1 0x4c 0x...

Nothing in this package executes scripts.
*/
package script
