package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/terraverde/terraverde-api/internal/species/domain"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// WriteCSV writes a BOM, the header row and one row per species.
func WriteCSV(w io.Writer, list []domain.Species) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range list {
		cells := record(s)
		row := make([]string, len(cells))
		for i, v := range cells {
			row[i] = cellString(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
