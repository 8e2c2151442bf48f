package domain

import "time"

// Avance is one immutable bitácora entry of an order. Older API revisions
// attached a single photo in `foto`; newer ones attach any number through
// `imagenes`. Entries may carry both.
type Avance struct {
	ID        int64        `json:"id"`
	Orden     int64        `json:"orden"`
	Contenido string       `json:"contenido"`
	Foto      string       `json:"foto"`
	CreadoEn  time.Time    `json:"creado_en"`
	Imagenes  []FotoAvance `json:"imagenes"`
}

type FotoAvance struct {
	ID   int64  `json:"id"`
	Foto string `json:"foto"`
}

// Photos returns every photo of the entry, legacy single-photo field first.
func (a *Avance) Photos() []string {
	photos := []string{}
	if a.Foto != "" {
		photos = append(photos, a.Foto)
	}
	for _, img := range a.Imagenes {
		if img.Foto != "" {
			photos = append(photos, img.Foto)
		}
	}
	return photos
}
