package simpleexcel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Constants & Types
// =============================================================================

// DefaultHeaderColor fills header cells when a section sets no header style.
const DefaultHeaderColor = "DDEBF7"

// CellProvider lets a row type resolve its own column values instead of going through reflection.
type CellProvider interface {
	Cell(field string) interface{}
}

// ExcelDataExporter is the main entry point for exporting data.
type ExcelDataExporter struct {
	// data holds data bound to specific section IDs (for YAML flow)
	data map[string]interface{}
	// sheets holds both YAML-initialized and programmatically added sheets
	sheets []*SheetBuilder
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a table of data in a sheet. Only the configured columns are rendered,
// in the configured order.
type SectionConfig struct {
	ID           string         `yaml:"id"`
	Data         interface{}    `yaml:"-"` // Data is bound at runtime
	ShowHeader   bool           `yaml:"show_header"`
	FreezeHeader bool           `yaml:"freeze_header"`
	HasFilter    bool           `yaml:"has_filter"`
	HeaderStyle  *StyleTemplate `yaml:"header_style"`
	Columns      []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName    string  `yaml:"field_name"` // Struct field name, map key or CellProvider field
	Header       string  `yaml:"header"`
	Width        float64 `yaml:"width"`
	NumberFormat string  `yaml:"number_format"` // Custom Excel number format, e.g. "$#,##0"
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Fill      *FillTemplate      `yaml:"fill"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, center, bottom
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// =============================================================================
// Constructors
// =============================================================================

func NewExcelDataExporter() *ExcelDataExporter {
	return &ExcelDataExporter{
		data:   make(map[string]interface{}),
		sheets: []*SheetBuilder{},
	}
}

// NewExcelDataExporterFromYamlConfig builds an exporter whose sheets and sections come from a YAML template.
// Section data is bound later with BindSectionData.
func NewExcelDataExporterFromYamlConfig(yamlConfig string) (*ExcelDataExporter, error) {
	if strings.TrimSpace(yamlConfig) == "" {
		return nil, fmt.Errorf("yaml config is empty")
	}
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(yamlConfig), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("yaml config defines no sheets")
	}

	exporter := NewExcelDataExporter()
	for i := range tmpl.Sheets {
		sheetTmpl := &tmpl.Sheets[i]
		sb := exporter.AddSheet(sheetTmpl.Name)
		for j := range sheetTmpl.Sections {
			sb.AddSection(&sheetTmpl.Sections[j])
		}
	}
	return exporter, nil
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *ExcelDataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
		sections: []*SectionConfig{},
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

// BindSectionData binds data to a section ID (for YAML-based export).
func (e *ExcelDataExporter) BindSectionData(id string, data interface{}) *ExcelDataExporter {
	e.data[id] = data
	return e
}

// GetSheet returns a SheetBuilder by name, or nil if not found.
func (e *ExcelDataExporter) GetSheet(name string) *SheetBuilder {
	for _, sheet := range e.sheets {
		if sheet.name == name {
			return sheet
		}
	}
	return nil
}

// BuildExcel renders every sheet into a new workbook.
func (e *ExcelDataExporter) BuildExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	f := excelize.NewFile()

	for i, sb := range e.sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sb.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if idx, _ := f.GetSheetIndex(sb.name); idx == -1 {
			if _, err := f.NewSheet(sb.name); err != nil {
				f.Close()
				return nil, err
			}
		}

		e.bindSections(sb)
		if err := e.renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// ExportToExcel generates the Excel file on disk.
func (e *ExcelDataExporter) ExportToExcel(ctx context.Context, path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *ExcelDataExporter) ToBytes() ([]byte, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// bindSections performs late binding of data registered by section ID.
func (e *ExcelDataExporter) bindSections(sb *SheetBuilder) {
	for _, sec := range sb.sections {
		if sec.ID == "" {
			continue
		}
		if data, ok := e.data[sec.ID]; ok {
			sec.Data = data
		}
	}
}

// =============================================================================
// SheetBuilder
// =============================================================================

type SheetBuilder struct {
	exporter *ExcelDataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

// Section returns the section with the given ID, or nil if not found.
func (sb *SheetBuilder) Section(id string) *SectionConfig {
	for _, sec := range sb.sections {
		if sec.ID == id {
			return sec
		}
	}
	return nil
}
