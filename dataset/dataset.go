// Package dataset loads the forest-fires observations from CSV.
//
// The file must carry the fixed header
//
//	X,Y,month,day,FFMC,DMC,DC,ISI,temp,RH,wind,rain,area
//
// and every numeric field must parse as a float. Any deviation aborts the
// load with an *errors.FileError whose cause is an *errors.SchemaError.
package dataset

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Column names in file order.
const (
	ColX     = "X"
	ColY     = "Y"
	ColMonth = "month"
	ColDay   = "day"
	ColFFMC  = "FFMC"
	ColDMC   = "DMC"
	ColDC    = "DC"
	ColISI   = "ISI"
	ColTemp  = "temp"
	ColRH    = "RH"
	ColWind  = "wind"
	ColRain  = "rain"
	ColArea  = "area"
)

// Columns is the expected header, in order.
var Columns = []string{
	ColX, ColY, ColMonth, ColDay, ColFFMC, ColDMC, ColDC, ColISI,
	ColTemp, ColRH, ColWind, ColRain, ColArea,
}

// CategoricalColumns are the non-numeric fields.
var CategoricalColumns = []string{ColMonth, ColDay}

// Record is one observation.
type Record struct {
	X, Y  float64 // spatial grid coordinates (1-9)
	Month string  // "jan".."dec"
	Day   string  // "mon".."sun"
	FFMC  float64
	DMC   float64
	DC    float64
	ISI   float64
	Temp  float64 // °C
	RH    float64 // relative humidity, %
	Wind  float64 // km/h
	Rain  float64 // mm/m²
	Area  float64 // burned area, ha; always >= 0
}

// Numeric returns the value of a numeric column, or ok=false for an
// unknown or categorical name.
func (r Record) Numeric(col string) (float64, bool) {
	switch col {
	case ColX:
		return r.X, true
	case ColY:
		return r.Y, true
	case ColFFMC:
		return r.FFMC, true
	case ColDMC:
		return r.DMC, true
	case ColDC:
		return r.DC, true
	case ColISI:
		return r.ISI, true
	case ColTemp:
		return r.Temp, true
	case ColRH:
		return r.RH, true
	case ColWind:
		return r.Wind, true
	case ColRain:
		return r.Rain, true
	case ColArea:
		return r.Area, true
	}
	return 0, false
}

// Dataset is an ordered, immutable collection of records.
type Dataset struct {
	Records []Record
}

// New wraps records in a Dataset.
func New(records []Record) *Dataset {
	return &Dataset{Records: records}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// NumericColumns returns the numeric column names in file order.
func (d *Dataset) NumericColumns() []string {
	return lo.Without(Columns, CategoricalColumns...)
}

// Column returns a copy of a numeric column.
func (d *Dataset) Column(name string) ([]float64, error) {
	if _, ok := (Record{}).Numeric(name); !ok {
		return nil, fmt.Errorf("dataset: %q is not a numeric column", name)
	}
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i], _ = r.Numeric(name)
	}
	return out, nil
}

// Head returns the first n records (fewer if the dataset is shorter).
func (d *Dataset) Head(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return d.Records[:n]
}

// Row renders a record as strings in header order.
func (r Record) Row() []string {
	return []string{
		formatNum(r.X), formatNum(r.Y), r.Month, r.Day,
		formatNum(r.FFMC), formatNum(r.DMC), formatNum(r.DC), formatNum(r.ISI),
		formatNum(r.Temp), formatNum(r.RH), formatNum(r.Wind), formatNum(r.Rain),
		formatNum(r.Area),
	}
}

func formatNum(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
