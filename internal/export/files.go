package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/consult-cli/internal/model"
)

// Default output names for the batch command.
const (
	DefaultCSVName  = "law.csv"
	DefaultXLSXName = "law.xlsx"
)

// TimestampedName returns prefix_YYYYMMDD_HHMMSS.ext for t.
func TimestampedName(prefix, ext string, t time.Time) string {
	return prefix + "_" + t.Format("20060102_150405") + "." + ext
}

// WriteFiles renders the table as CSV and XLSX and writes both into dir.
// Both renderings complete before either file is written.
func WriteFiles(t *model.Table, dir, csvName, xlsxName, sheet string) (csvPath, xlsxPath string, err error) {
	csvData, err := CSV(t)
	if err != nil {
		return "", "", err
	}
	xlsxData, err := XLSX(t, sheet)
	if err != nil {
		return "", "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	csvPath = filepath.Join(dir, csvName)
	xlsxPath = filepath.Join(dir, xlsxName)

	if err := os.WriteFile(csvPath, csvData, 0o644); err != nil {
		return "", "", eris.Wrapf(err, "export: write %s", csvPath)
	}
	if err := os.WriteFile(xlsxPath, xlsxData, 0o644); err != nil {
		return "", "", eris.Wrapf(err, "export: write %s", xlsxPath)
	}

	zap.L().Info("export: files written",
		zap.String("csv", csvPath),
		zap.String("xlsx", xlsxPath),
		zap.Int("rows", t.Len()),
	)
	return csvPath, xlsxPath, nil
}
