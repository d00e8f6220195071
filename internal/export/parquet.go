package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/entericlab/entericreport/internal/utils"
)

// Parquet schemas mirror the CSV exports column for column. NaN survives
// in the float columns, so no NA sentinel is needed.

type prevalenceRow struct {
	Target     string  `parquet:"target_name"`
	Prevalence float64 `parquet:"prevalence"`
	SD         float64 `parquet:"sd"`
	N          int64   `parquet:"n"`
}

type burdenRow struct {
	HouseholdID string `parquet:"household_id"`
	SampleType  string `parquet:"sample_type"`
	NumDetected int64  `parquet:"num_detected"`
}

type amrRow struct {
	SampleType  string  `parquet:"sample_type"`
	Samples     int64   `parquet:"samples"`
	ECPrev      float64 `parquet:"ec_prevalence"`
	ARECPrev    float64 `parquet:"ar_ec_prevalence"`
	TCPrev      float64 `parquet:"tc_prevalence"`
	ARTCPrev    float64 `parquet:"ar_tc_prevalence"`
	MeanESBLCFU float64 `parquet:"mean_adjusted_esbl_cfu"`
}

// WriteParquet writes one snappy-compressed Parquet file per table into dir
// and returns the written paths.
func WriteParquet(dir string, t Tables) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var written []string

	prev := make([]prevalenceRow, len(t.Prevalence))
	for i, s := range t.Prevalence {
		prev[i] = prevalenceRow{Target: s.Target, Prevalence: s.Prevalence, SD: s.SD, N: int64(s.N)}
	}
	path, err := writeParquetFile(filepath.Join(dir, "prevalence_summary.parquet"), prev)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	burden := make([]burdenRow, len(t.Burden))
	for i, b := range t.Burden {
		burden[i] = burdenRow{HouseholdID: b.HouseholdID, SampleType: b.SampleType, NumDetected: int64(b.NumDetected)}
	}
	path, err = writeParquetFile(filepath.Join(dir, "burden_summary.parquet"), burden)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	amr := make([]amrRow, len(t.AMR))
	for i, a := range t.AMR {
		amr[i] = amrRow{
			SampleType: a.SampleType, Samples: int64(a.Samples),
			ECPrev: a.ECPrev, ARECPrev: a.ARECPrev,
			TCPrev: a.TCPrev, ARTCPrev: a.ARTCPrev,
			MeanESBLCFU: a.MeanESBLCFU,
		}
	}
	path, err = writeParquetFile(filepath.Join(dir, "amr_profile.parquet"), amr)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	return written, nil
}

func writeParquetFile[T any](path string, rows []T) (string, error) {
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := parquet.NewGenericWriter[T](file, parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			file.Close()
			return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	if err := w.Close(); err != nil {
		file.Close()
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return path, nil
}
