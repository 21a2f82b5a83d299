// Package touchstone reads and writes Touchstone (.sNp) files.
//
// Version 1 files and the subset of version 2.0 that describes S, Y or Z
// data on real reference impedances are supported: [Number of Ports],
// [Two-Port Data Order], [Number of Frequencies], [Reference],
// [Matrix Format] (Full, Lower, Upper) and [Network Data]. Noise data is
// skipped. Y and Z data are converted to S parameters on read.
//
// Comments that precede the option line are kept in Network.Comments and
// written back as header comments.
//
// # Usage
//
//	n, err := touchstone.ReadFile("thru.s4p")
//	if err != nil {
//		return err
//	}
//	err = touchstone.WriteFile("thru_db.s4p", n, touchstone.WithFormat(touchstone.DB))
package touchstone
