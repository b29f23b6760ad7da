// Package dexios holds process-wide mode flags shared by the dexios
// command-line tool and its packages: development logging verbosity and a
// FIPS-compliance mode that restricts content encryption to AES-256-GCM.
package dexios
