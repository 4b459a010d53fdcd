// Package record reads and writes the YAML files exchanged with the CAD
// generator: the flat result record (srcp.yaml) and two-stack files used by
// the multi-module solver.
//
// Both files share the stack_1_params and stack_2_params sections, so a
// solved stack file can be fed to the CAD macro directly.
package record
