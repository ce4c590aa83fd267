package models

import (
	"database/sql"
	"time"
)

// Image is one row of the catalogue. Paths are relative to the data dir.
type Image struct {
	ID            int64           `db:"id"`
	FotoladuID    int64           `db:"fotoladu_id"`
	Path          string          `db:"path"`
	PathCorrected sql.NullString  `db:"path_corrected"`
	PathThumb     sql.NullString  `db:"path_thumb"`
	Aasta         string          `db:"aasta"`
	W             sql.NullFloat64 `db:"w"`
	H             sql.NullFloat64 `db:"h"`
	Peakaust      string          `db:"peakaust"`
	Kaust         string          `db:"kaust"`
	Fail          string          `db:"fail"`
	Lend          string          `db:"lend"`
	Fotonr        string          `db:"fotonr"`
	Kaardileht    string          `db:"kaardileht"`
	Tyyp          string          `db:"tyyp"`
	Allikas       string          `db:"allikas"`
	Lat           sql.NullFloat64 `db:"lat"`
	Lon           sql.NullFloat64 `db:"lon"`
	Accuracy      sql.NullFloat64 `db:"accuracy"`
	CreatedAt     time.Time       `db:"created_at"`
}
