package utils

// Relative tolerance used to call two lattice roots coincident
const ROOTTOL = 1.e-14
