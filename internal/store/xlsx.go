package store

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
)

// Sheet names for the two outcome partitions.
const (
	SheetSucceeded = "succeeded"
	SheetFailed    = "failed"
)

// columns is the required header row, in write order.
var columns = []string{"name", "address", "website", "email", "opening_hours", "closed_days", "execution_flag"}

// Store reads and writes the workbook at a fixed path. It assumes
// exclusive single-writer access per run.
type Store struct {
	path string
	log  *zap.Logger
}

// New creates a Store over the given workbook path.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Path returns the workbook path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the workbook into a Snapshot. A missing file is the normal
// first-run bootstrap and yields an empty snapshot. A file that cannot
// be opened, or whose sheets lack the required columns, is treated the
// same way with a warning; corruption never fails the run.
func (s *Store) Load() (*Snapshot, error) {
	snapshot := &Snapshot{}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, nil
		}
		s.log.Warn("store unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		return snapshot, nil
	}

	snapshot.Succeeded = s.loadSheet(f, SheetSucceeded, model.OutcomeEnriched)
	snapshot.Failed = s.loadSheet(f, SheetFailed, model.OutcomeUnenriched)
	return snapshot, nil
}

// loadSheet reads one partition sheet. A missing sheet or header is a
// schema problem, logged and bootstrapped to empty.
func (s *Store) loadSheet(f *xlsx.File, name string, outcome model.Outcome) []model.Place {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil
	}
	if len(sheet.Rows) == 0 {
		return nil
	}

	idx, ok := columnIndex(sheet.Rows[0])
	if !ok {
		s.log.Warn("store sheet missing required columns, treating as empty", zap.String("sheet", name))
		return nil
	}

	var records []model.Place
	for _, row := range sheet.Rows[1:] {
		rec := model.Place{
			Name:         cellValue(row, idx["name"]),
			Address:      cellValue(row, idx["address"]),
			Website:      cellValue(row, idx["website"]),
			Email:        cellValue(row, idx["email"]),
			OpeningHours: cellValue(row, idx["opening_hours"]),
			ClosedDays:   cellValue(row, idx["closed_days"]),
			Outcome:      outcome,
			Contacted:    cellBool(row, idx["execution_flag"]),
		}
		if rec.Key() == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Save writes the full snapshot back to the workbook as a single replace:
// a temp file in the target directory, then an atomic rename over the
// old file. A crash mid-write leaves the previous state intact.
func (s *Store) Save(snapshot *Snapshot) error {
	f := xlsx.NewFile()
	if err := writeSheet(f, SheetSucceeded, snapshot.Succeeded); err != nil {
		return err
	}
	if err := writeSheet(f, SheetFailed, snapshot.Failed); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "store: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	tmpPath := tmp.Name()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return eris.Wrap(err, "store: write workbook")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrap(err, "store: close temp file")
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrap(err, "store: replace workbook")
	}
	return nil
}

// MergeAppend loads the store, merges the new records first-write-wins,
// and persists the combined state. Returns the number appended.
func (s *Store) MergeAppend(records []model.Place) (int, error) {
	snapshot, err := s.Load()
	if err != nil {
		return 0, err
	}
	appended := snapshot.Merge(records)
	if err := s.Save(snapshot); err != nil {
		return appended, err
	}
	return appended, nil
}

func writeSheet(f *xlsx.File, name string, records []model.Place) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "store: add sheet %s", name)
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.Name)
		row.AddCell().SetString(rec.Address)
		row.AddCell().SetString(rec.Website)
		row.AddCell().SetString(rec.Email)
		row.AddCell().SetString(rec.OpeningHours)
		row.AddCell().SetString(rec.ClosedDays)
		row.AddCell().SetBool(rec.Contacted)
	}
	return nil
}

// columnIndex maps the required column names to their positions in the
// header row. Extra columns are ignored; any missing required column
// fails the lookup.
func columnIndex(header *xlsx.Row) (map[string]int, bool) {
	idx := make(map[string]int, len(columns))
	for i, cell := range header.Cells {
		idx[cell.String()] = i
	}
	for _, col := range columns {
		if _, ok := idx[col]; !ok {
			return nil, false
		}
	}
	return idx, true
}

func cellValue(row *xlsx.Row, i int) string {
	if i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i].String()
}

func cellBool(row *xlsx.Row, i int) bool {
	if i >= len(row.Cells) {
		return false
	}
	return row.Cells[i].Bool()
}
