package sniper

import (
	"encoding/json"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/report"
)

// MarshalReport writes r as indented JSON, the same shape the CLI prints.
func MarshalReport(w io.Writer, r Report) error {
	return report.WriteJSON(w, r)
}

// UnmarshalReport decodes a report produced by MarshalReport or the CLI.
func UnmarshalReport(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, errors.WithStack(err)
	}
	if rep.Results == nil {
		rep.Results = []Occurrence{}
	}
	return rep, nil
}
