package simpleexcel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
)

// renderSections stacks sections vertically starting at A1.
func (e *ExcelDataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1
	for _, sec := range sections {
		next, err := e.renderSection(f, sheet, sec, row)
		if err != nil {
			return fmt.Errorf("render section %q: %w", sec.ID, err)
		}
		row = next
	}
	return nil
}

// renderSection writes one section and returns the first free row below it.
func (e *ExcelDataExporter) renderSection(f *excelize.File, sheet string, sec *SectionConfig, row int) (int, error) {
	headerRow := row
	if sec.ShowHeader && len(sec.Columns) > 0 {
		defaultHeader := &StyleTemplate{
			Font: &FontTemplate{Bold: true},
			Fill: &FillTemplate{Color: DefaultHeaderColor},
		}
		styleID, err := createStyle(f, resolveStyle(sec.HeaderStyle, defaultHeader))
		if err != nil {
			return 0, err
		}
		for i, col := range sec.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
				return 0, err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
				return 0, err
			}
			if col.Width > 0 {
				colName, _ := excelize.ColumnNumberToName(i + 1)
				if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
					return 0, err
				}
			}
		}
		if sec.FreezeHeader {
			topLeft, _ := excelize.CoordinatesToCellName(1, row+1)
			if err := f.SetPanes(sheet, &excelize.Panes{
				Freeze:      true,
				YSplit:      row,
				TopLeftCell: topLeft,
				ActivePane:  "bottomLeft",
			}); err != nil {
				return 0, err
			}
		}
		row++
	}

	numberStyles := make(map[int]int)
	for i, col := range sec.Columns {
		if col.NumberFormat == "" {
			continue
		}
		format := col.NumberFormat
		styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return 0, err
		}
		numberStyles[i] = styleID
	}

	dataVal := reflect.ValueOf(sec.Data)
	if dataVal.Kind() == reflect.Ptr {
		dataVal = dataVal.Elem()
	}
	dataLen := 0
	if dataVal.Kind() == reflect.Slice {
		dataLen = dataVal.Len()
	}

	for i := 0; i < dataLen; i++ {
		item := dataVal.Index(i)
		values := make([]interface{}, len(sec.Columns))
		for j, col := range sec.Columns {
			values[j] = extractValue(item, col.FieldName)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return 0, err
		}
		for j, styleID := range numberStyles {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
				return 0, err
			}
		}
		row++
	}

	if sec.HasFilter && sec.ShowHeader && len(sec.Columns) > 0 {
		firstCell, _ := excelize.CoordinatesToCellName(1, headerRow)
		lastRow := row - 1
		if lastRow < headerRow {
			lastRow = headerRow
		}
		lastCell, _ := excelize.CoordinatesToCellName(len(sec.Columns), lastRow)
		if err := f.AutoFilter(sheet, fmt.Sprintf("%s:%s", firstCell, lastCell), nil); err != nil {
			return 0, err
		}
	}

	return row, nil
}

// resolveStyle fills the parts base leaves unset from defaultStyle.
func resolveStyle(base *StyleTemplate, defaultStyle *StyleTemplate) *StyleTemplate {
	s := &StyleTemplate{}
	if defaultStyle != nil {
		*s = *defaultStyle
	}
	if base == nil {
		return s
	}
	if base.Font != nil {
		s.Font = base.Font
	}
	if base.Fill != nil {
		s.Fill = base.Fill
	}
	if base.Alignment != nil {
		s.Alignment = base.Alignment
	}
	return s
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	return f.NewStyle(style)
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	if item.CanInterface() {
		if p, ok := item.Interface().(CellProvider); ok {
			return p.Cell(fieldName)
		}
	}
	if item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if val := item.MapIndex(reflect.ValueOf(fieldName)); val.IsValid() {
			return val.Interface()
		}
	}
	return ""
}
