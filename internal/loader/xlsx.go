package loader

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/verte-zerg/basedash/internal/model"
)

func sheetNames(path string) ([]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = book.Close()
	}()
	return book.GetSheetList(), nil
}

// readXLSX concatenates the selected sheets. Sheets without a header row are skipped.
func (l *Loader) readXLSX(path string, sheets []string) (*model.Dataset, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = book.Close()
	}()

	if len(sheets) == 0 {
		sheets = book.GetSheetList()
	}
	parts := make([]*model.Dataset, 0, len(sheets))
	for _, sheet := range sheets {
		if idx, err := book.GetSheetIndex(sheet); err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", sheet)
		}
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		part, err := l.table(path+"#"+sheet, rows)
		if errors.Is(err, ErrEmptyFile) {
			l.Log.Debug("empty sheet skipped", zap.String("sheet", sheet))
			continue
		}
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, ErrEmptyFile
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return concat(parts), nil
}
