package models

// Terminal is a pos.config record. Immutable once fetched; the resolved set
// is rebuilt on every report run, never cached across runs.
type Terminal struct {
	ID   int64
	Name string
}
