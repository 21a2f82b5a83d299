// Command snputil manipulates Touchstone S-parameter files.
//
// Usage:
//
//	snputil <command> [flags] <files...> [ri|ma|db]
//
// Commands:
//
//	bisect   split a 2x-thru into its fixture halves (IEEE P370)
//	cascade  connect two networks in series
//	deembed  remove a fixture from a measurement
//	diff     point-wise difference of two networks
//	convert  rewrite a file in another data format
//	combine  build an N-port from 2-port pair measurements
//	attach   place a cable 2-port in front of selected ports
//	zeros    write an all-zero 2-port on a reference grid
//	qm       print IEEE P370 quality metrics
//	tdr      print delay and TDR impedance range
//
// Examples:
//
//	snputil bisect 2xthru.s4p db
//	snputil deembed --side both total.s4p 2xthru_bisect.s4p
//	snputil qm --pass 99 measured.s2p
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "snputil: %v\n", err)
		if errors.Is(err, errQualityFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
