// Command flowctl is a small inspector for flowkit's label registry,
// operator flag surface, and tuple layout. It does not run a dataflow
// graph; it exists to make the pieces an operator is built from
// (labels, options, tuple shape) visible from the command line.
package main

func main() {
	execute()
}
