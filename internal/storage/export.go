package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravbox/internal/geom"
)

type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	Bodies  []BodyInfo     `json:"bodies"`
	Samples []exportSample `json:"samples"`
}

// exportSample mirrors Sample with absent bodies as null, since JSON has no
// NaN.
type exportSample struct {
	Time      float64      `json:"time"`
	Kinetic   float64      `json:"kinetic"`
	Potential float64      `json:"potential"`
	Momentum  geom.Vec2    `json:"momentum"`
	Positions []*geom.Vec2 `json:"positions"`
}

func ExportJSON(out io.Writer, meta RunMetadata, rec *Recording) error {
	data := ExportData{
		Meta:    meta,
		Bodies:  rec.Bodies,
		Samples: make([]exportSample, len(rec.Samples)),
	}
	for i, s := range rec.Samples {
		es := exportSample{
			Time:      s.Time,
			Kinetic:   s.Kinetic,
			Potential: s.Potential,
			Momentum:  s.Momentum,
			Positions: make([]*geom.Vec2, len(s.Positions)),
		}
		for j := range s.Positions {
			if s.Positions[j].IsFinite() {
				p := s.Positions[j]
				es.Positions[j] = &p
			}
		}
		data.Samples[i] = es
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSONFile writes to path, or to stdout when path is "-".
func ExportJSONFile(path string, meta RunMetadata, rec *Recording) error {
	if path == "-" {
		return ExportJSON(os.Stdout, meta, rec)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, rec)
}
