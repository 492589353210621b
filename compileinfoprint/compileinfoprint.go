// Package compileinfoprint is imported by each coexstats tool for the side
// effect of printing its build banner to stderr before any output is written.
package compileinfoprint

import "github.com/carbocation/coexstats/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
