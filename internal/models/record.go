package models

import (
	"github.com/google/uuid"
)

// ImageRecord is the JSON shape of one catalogue image on the wire.
type ImageRecord struct {
	ID           Field `json:"id"`
	URL          Field `json:"url"`
	URLCorrected Field `json:"url_corrected"`
	URLRaw       Field `json:"url_raw"`
	URLThumb     Field `json:"url_thumb"`
	Path         Field `json:"path"`
	FotoladuID   Field `json:"fotoladu_id"`
	Aasta        Field `json:"aasta"`
	W            Field `json:"w"`
	H            Field `json:"h"`
	Peakaust     Field `json:"peakaust"`
	Kaust        Field `json:"kaust"`
	Fail         Field `json:"fail"`
	Lend         Field `json:"lend"`
	Fotonr       Field `json:"fotonr"`
	Kaardileht   Field `json:"kaardileht"`
	Tyyp         Field `json:"tyyp"`
	Allikas      Field `json:"allikas"`
	Lat          Field `json:"lat"`
	Lon          Field `json:"lon"`
	Accuracy     Field `json:"accuracy"`
}

// IngestJob asks the processor to pull one Fotoladu search into the catalogue.
// With BBox set the archive is queried by area and only Aasta of the search
// keys applies.
type IngestJob struct {
	ID         uuid.UUID `json:"id"`
	FotoNr     *int      `json:"foto_nr,omitempty"`
	Aasta      string    `json:"aasta,omitempty"`
	Kaardileht string    `json:"kaardileht,omitempty"`
	LennuNr    string    `json:"lennu_nr,omitempty"`
	FotoTyyp   string    `json:"foto_tyyp,omitempty"`
	Allikas    string    `json:"allikas,omitempty"`
	SailikuNr  string    `json:"sailiku_nr,omitempty"`
	MaxPages   int       `json:"max_pages,omitempty"`
	BBox       *BBox     `json:"bbox,omitempty"`
}

// BBox is a WGS84 rectangle from the south-west corner A to the north-east corner U.
type BBox struct {
	ALat float64 `json:"a_lat"`
	ALng float64 `json:"a_lng"`
	ULat float64 `json:"u_lat"`
	ULng float64 `json:"u_lng"`
}
