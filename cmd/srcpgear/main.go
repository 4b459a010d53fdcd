// Package main provides the entry point for the srcpgear CLI.
//
// srcpgear searches tooth counts for a split-ring compound planetary gearbox
// that hits a target reduction ratio and writes the parameter record the CAD
// generator reads.
//
// Usage:
//
//	srcpgear optimize <ratio>
//	srcpgear optimize --min-error --od 60 <ratio>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
