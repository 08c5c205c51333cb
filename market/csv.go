package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadCSV reads bar rows:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339 or RFC3339Nano. A single header row ("time,...") is
// allowed and empty/short rows are skipped. Rows outside [from, to) are
// dropped when the bounds are non-zero. The result is sorted ascending and
// duplicate timestamps keep the first row.
func ReadCSV(r io.Reader, from, to time.Time) (Bars, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		out      Bars
		sawFirst bool
		line     int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok || !inRange(b.Time, from, to) {
			continue
		}
		out = append(out, b)
	}

	return out.Normalize(), nil
}

// ReadCSVFile opens path and calls ReadCSV.
func ReadCSVFile(path string, from, to time.Time) (Bars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, from, to)
}

func parseBarRow(row []string) (Bar, bool, error) {
	if len(row) < 5 {
		return Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Bar{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Bar{}, false, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	var vals [5]float64
	n := 4
	if len(row) > 5 {
		n = 5
	}
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	b := Bar{Time: t.UTC(), Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4]}
	if b.High < b.Low {
		return Bar{}, false, fmt.Errorf("high %v below low %v", b.High, b.Low)
	}
	return b, true, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
