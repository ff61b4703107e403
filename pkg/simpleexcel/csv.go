package simpleexcel

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strconv"
)

// ToCSV exports the sections of the first sheet as CSV, separated by an empty line.
func (e *ExcelDataExporter) ToCSV(w io.Writer) error {
	if len(e.sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	csvWriter := csv.NewWriter(w)
	sheet := e.sheets[0]
	e.bindSections(sheet)

	for i, sec := range sheet.sections {
		cols := sec.Columns
		if sec.ShowHeader && len(cols) > 0 {
			headerArr := make([]string, len(cols))
			for j, col := range cols {
				headerArr[j] = col.Header
			}
			if err := csvWriter.Write(headerArr); err != nil {
				return err
			}
		}

		v := reflect.ValueOf(sec.Data)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() == reflect.Slice {
			for r := 0; r < v.Len(); r++ {
				item := v.Index(r)
				rowArr := make([]string, len(cols))
				for j, col := range cols {
					rowArr[j] = csvString(extractValue(item, col.FieldName))
				}
				if err := csvWriter.Write(rowArr); err != nil {
					return err
				}
			}
		}

		if i < len(sheet.sections)-1 {
			if err := csvWriter.Write([]string{""}); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func csvString(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}
