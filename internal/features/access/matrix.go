package access

import (
	"sort"

	"go-chms/internal/common/models"
	"go-chms/internal/features/auth"

	"github.com/xuri/excelize/v2"
)

const (
	routesSheet     = "Routes"
	dashboardsSheet = "Dashboards"
)

// ExportAccessMatrix writes a workbook with one row per module route and one
// row per dashboard, and a column per configured role.
func ExportAccessMatrix(modules []models.Module) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	roles := auth.ConfiguredRoles()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	routeHeader := append([]string{"Module", "Route", "Enabled"}, roles...)
	var routeRows [][]any
	for _, m := range modules {
		row := []any{m.Name, m.Path, yesNo(m.Enabled)}
		for _, role := range roles {
			row = append(row, yesNo(auth.RoleCanAccessRoute(role, m.Path)))
		}
		routeRows = append(routeRows, row)
	}

	dashboardHeader := append([]string{"Dashboard"}, roles...)
	var dashboardRows [][]any
	for _, d := range dashboardNames(roles) {
		row := []any{d}
		for _, role := range roles {
			row = append(row, yesNo(auth.RoleCanAccessDashboard(role, d)))
		}
		dashboardRows = append(dashboardRows, row)
	}

	if err := f.SetSheetName("Sheet1", routesSheet); err != nil {
		return nil, err
	}
	index, err := writeSheet(f, routesSheet, routeHeader, routeRows, headerStyle)
	if err != nil {
		return nil, err
	}
	if _, err := writeSheet(f, dashboardsSheet, dashboardHeader, dashboardRows, headerStyle); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) (int, error) {
	index, err := f.NewSheet(sheet)
	if err != nil {
		return 0, err
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	for i := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}
	return index, nil
}

func dashboardNames(roles []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, role := range roles {
		a, _ := auth.AccessFor(role)
		for _, d := range a.Dashboards {
			if d != "*" && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	sort.Strings(out)
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
