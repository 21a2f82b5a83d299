// Package core provides small numeric helpers shared by the RF packages:
// tolerance comparisons, dB conversions and polar/dB complex constructors
// matching the Touchstone data forms.
package core
