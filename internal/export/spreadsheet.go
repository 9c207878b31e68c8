package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/unidoc/unioffice/spreadsheet"

	"nameplate/internal/labels"
)

// SheetName is the name of the single worksheet in the spreadsheet artifact.
const SheetName = "Labels"

// WriteSpreadsheet writes t as an xlsx workbook with a bold header row.
func WriteSpreadsheet(w io.Writer, t labels.Table) error {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	sheet.SetName(SheetName)

	bold := wb.StyleSheet.AddCellStyle()
	font := wb.StyleSheet.AddFont()
	font.SetBold(true)
	bold.SetFont(font)

	header := sheet.AddRow()
	for _, h := range t.Header {
		c := header.AddCell()
		c.SetString(h)
		c.SetStyle(bold)
	}
	for _, r := range t.Rows {
		row := sheet.AddRow()
		for _, v := range r.Cells() {
			row.AddCell().SetString(v)
		}
	}

	if err := wb.Save(w); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ReadSpreadsheet returns the string contents of the first sheet, row by row.
func ReadSpreadsheet(body []byte) ([][]string, error) {
	wb, err := spreadsheet.Read(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, nil
	}
	var out [][]string
	for _, row := range sheets[0].Rows() {
		var cells []string
		for _, c := range row.Cells() {
			cells = append(cells, c.GetString())
		}
		out = append(out, cells)
	}
	return out, nil
}
