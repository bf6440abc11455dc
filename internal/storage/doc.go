// Package storage provides JSON-based persistence for pipeline artifacts.
//
// The storage package manages the data directory every pipeline stage reads
// from and writes to. Stage outputs are indented JSON files under
// processed/; analysis artifacts carry a run timestamp in their filename and
// are looked up newest-first. The counselor directory holds contact details
// and can be sealed with a passphrase-derived key.
package storage
