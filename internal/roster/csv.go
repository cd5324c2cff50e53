package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/logger"

	"santa/internal/models"
)

// ReadCSV reads participant rows. Each record is
//
//	nameA[,exclusionsA[,nameB,exclusionsB]]
//
// An optional header whose first field is "name" is skipped, and so are records
// with any other field count.
func ReadCSV(r io.Reader) ([]models.Row, error) {
	return readCSV(r, func(line, fields int) {
		logger.Infof("Skipping malformed participant CSV record on line %d: %d fields", line, fields)
	})
}

// readCSV reports each skipped record through skip with the file line it starts on.
func readCSV(r io.Reader, skip func(line, fields int)) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []models.Row
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading participant CSV: %w", err)
		}

		if first && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}

		var row models.Row
		switch len(record) {
		case 1:
			row.First = models.Person{Name: record[0]}
		case 2:
			row.First = models.Person{Name: record[0], Exclusions: record[1]}
		case 4:
			row.First = models.Person{Name: record[0], Exclusions: record[1]}
			row.Second = models.Person{Name: record[2], Exclusions: record[3]}
		default:
			line, _ := reader.FieldPos(0)
			skip(line, len(record))
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
