package utils

// ROUNDOFF is the relative tolerance below which a negative solved value is treated as zero
const ROUNDOFF = 1.e-9
