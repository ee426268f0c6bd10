package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// Load reads the dataset at path. The file handle is closed before Load
// returns on every path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileError("open", path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, errors.NewFileError("read", path, err)
	}
	return ds, nil
}

// Read parses CSV content with the fixed forest-fires header.
func Read(r io.Reader) (*Dataset, error) {
	const op = "dataset.Read"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated below with a schema error
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(errors.ErrEmptyData, "missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if err := checkHeader(op, header); err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read line %d", line)
		}
		if len(row) != len(Columns) {
			return nil, errors.NewSchemaError(op, "", line,
				"expected "+strconv.Itoa(len(Columns))+" fields, got "+strconv.Itoa(len(row)))
		}

		rec, err := parseRecord(op, line, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "no data rows")
	}
	return New(records), nil
}

func checkHeader(op string, header []string) error {
	names := lo.Map(header, func(h string, _ int) string {
		return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	})

	if len(names) != len(Columns) {
		missing, extra := lo.Difference(Columns, names)
		reason := "expected " + strconv.Itoa(len(Columns)) + " columns, got " + strconv.Itoa(len(names))
		if len(missing) > 0 {
			reason += "; missing " + strings.Join(missing, ",")
		}
		if len(extra) > 0 {
			reason += "; unexpected " + strings.Join(extra, ",")
		}
		return errors.NewSchemaError(op, "", 1, reason)
	}

	for i, want := range Columns {
		if names[i] != want {
			return errors.NewSchemaError(op, want, 1, "header position "+strconv.Itoa(i+1)+" is "+strconv.Quote(names[i]))
		}
	}
	return nil
}

func parseRecord(op string, line int, row []string) (Record, error) {
	var rec Record
	var firstErr error

	num := func(col string, s string) float64 {
		if firstErr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			firstErr = errors.NewSchemaError(op, col, line, "not a finite number: "+strconv.Quote(s))
			return 0
		}
		return v
	}
	str := func(col string, s string) string {
		s = strings.TrimSpace(s)
		if firstErr == nil && s == "" {
			firstErr = errors.NewSchemaError(op, col, line, "empty value")
		}
		return s
	}

	rec.X = num(ColX, row[0])
	rec.Y = num(ColY, row[1])
	rec.Month = str(ColMonth, row[2])
	rec.Day = str(ColDay, row[3])
	rec.FFMC = num(ColFFMC, row[4])
	rec.DMC = num(ColDMC, row[5])
	rec.DC = num(ColDC, row[6])
	rec.ISI = num(ColISI, row[7])
	rec.Temp = num(ColTemp, row[8])
	rec.RH = num(ColRH, row[9])
	rec.Wind = num(ColWind, row[10])
	rec.Rain = num(ColRain, row[11])
	rec.Area = num(ColArea, row[12])

	if firstErr != nil {
		return Record{}, firstErr
	}
	if rec.Area < 0 {
		return Record{}, errors.NewSchemaError(op, ColArea, line, "burned area must be >= 0, got "+strconv.FormatFloat(rec.Area, 'g', -1, 64))
	}
	return rec, nil
}
