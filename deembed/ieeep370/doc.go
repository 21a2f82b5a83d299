// Package ieeep370 splits a symmetric 2x-thru measurement into its two
// fixture halves following the IEEE P370 no-zero-crossing (NZC) method.
//
// The 2x-thru is transformed to the time domain on a harmonic grid
// f_k = k·Δf. The transmission impulse peak marks the electrical mid-point
// and the TDR impedance there becomes the reference for extraction. The
// reflection impulse responses are gated at the mid-point to obtain the
// outer reflections of each half; the remaining error terms follow from
// the symmetry assumption. Inputs with a DC point or a non-harmonic grid
// are resampled and the halves are returned on the original grid.
//
// 4-port differential 2x-thrus are split per mode: the differential block
// at 2·z0 and the common block at z0/2, then converted back to
// single-ended ports.
//
// # Usage
//
//	fx, err := ieeep370.Split(thru, ieeep370.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	dut, err := fx.Deembed(measurement)
package ieeep370
