package reports

import (
	"fmt"
	"time"

	"github.com/prashantisarees/pos_reports_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	DetailSheet   = "Order Details"
	SummarySheet  = "Customer Summary"
	AnalysisSheet = "Sales Analysis"
)

// Sheet geometry shared by all three sheets: merged title band on rows 1-2,
// styled header on row 4, data from row 5.
const (
	headerRow    = 4
	firstDataRow = 5
)

const (
	moneyFormat      = "₹#,##0.00"
	detailDateFormat = "dd-mm-yyyy hh:mm:ss"
	dayFormat        = "02-01-2006"
)

// ReportFilename is the conventional attachment name for one report run.
func ReportFilename(branchName string, fromDate, toDate time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", branchName, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
}

// BuildOrderWorkbook renders orders plus their joined customer and terminal
// records into the three-sheet report workbook. Totals are written as live
// SUM formulas over the exact data ranges so the sheet stays auditable after
// manual edits. Any construction error aborts the whole render; there is no
// partial-workbook fallback.
func BuildOrderWorkbook(orders []models.Order, customers map[int64]models.Customer, terminals map[int64]models.Terminal, fromDate, toDate time.Time, branchName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DetailSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		return nil, err
	}

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	title := fmt.Sprintf("Prashanti Sarees - %s Branch", branchName)
	fromLabel := fromDate.Format("2006-01-02")
	toLabel := toDate.Format("2006-01-02")

	writeDetailSheet(w, st, orders, customers, terminals, title, fromLabel, toLabel)
	writeSummarySheet(w, st, models.SummarizeByCustomer(orders, customers), title, fromLabel, toLabel)

	days := models.SummarizeByDay(orders)
	writeAnalysisSheet(w, st, days, title, fromLabel, toLabel)
	if w.err != nil {
		return nil, w.err
	}

	// An empty chart confuses spreadsheet apps; leave it out entirely when
	// there are no days of data.
	if len(days) > 0 {
		if err := addSalesChart(f, len(days)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeDetailSheet(w *sheetWriter, st sheetStyles, orders []models.Order, customers map[int64]models.Customer, terminals map[int64]models.Terminal, title, fromLabel, toLabel string) {
	w.colWidth(DetailSheet, "A", "I", 18)
	w.mergedBand(DetailSheet, "A1", "I1", title, st.title)
	w.mergedBand(DetailSheet, "A2", "I2", fmt.Sprintf("POS Orders from %s to %s", fromLabel, toLabel), st.subtitle)
	w.headerCells(DetailSheet, st.header,
		"Order Date", "Order Reference", "POS Terminal", "Customer ID",
		"Customer Name", "Mobile", "Email", "Amount (₹)", "Config ID")

	for i, o := range orders {
		rowIdx := i + headerRow
		row := rowIdx + 1
		rowStyle := 0
		if rowIdx%2 == 0 {
			rowStyle = st.highlight
		}

		// Unparsable dates still appear on the detail sheet, shown as the
		// current time; only the daily fold drops them.
		orderDate, err := o.OrderTime()
		if err != nil {
			orderDate = time.Now()
		}

		var customer models.Customer
		var customerID interface{} = ""
		if o.CustomerID != nil {
			customer = customers[*o.CustomerID]
			customerID = *o.CustomerID
		}
		var terminalName string
		var terminalID interface{} = ""
		if o.TerminalID != nil {
			terminalName = terminals[*o.TerminalID].Name
			terminalID = *o.TerminalID
		}

		w.cell(DetailSheet, "A", row, orderDate, st.date)
		w.cell(DetailSheet, "B", row, o.Reference, st.center)
		w.cell(DetailSheet, "C", row, terminalName, rowStyle)
		w.cell(DetailSheet, "D", row, customerID, st.center)
		w.cell(DetailSheet, "E", row, customer.Name, rowStyle)
		w.cell(DetailSheet, "F", row, customer.Mobile, st.center)
		w.cell(DetailSheet, "G", row, customer.Email, rowStyle)
		w.cell(DetailSheet, "H", row, o.Amount.InexactFloat64(), st.money)
		w.cell(DetailSheet, "I", row, terminalID, st.center)
	}

	lastData := len(orders) + headerRow
	totalRow := lastData + 1
	w.cell(DetailSheet, "G", totalRow, "TOTAL:", st.header)
	w.formula(DetailSheet, "H", totalRow,
		fmt.Sprintf("SUM('%s'!H%d:H%d)", DetailSheet, firstDataRow, lastData), st.totalMoney)
}

func writeSummarySheet(w *sheetWriter, st sheetStyles, summaries []models.CustomerSummary, title, fromLabel, toLabel string) {
	w.colWidth(SummarySheet, "A", "G", 20)
	w.mergedBand(SummarySheet, "A1", "G1", title, st.title)
	w.mergedBand(SummarySheet, "A2", "G2", fmt.Sprintf("Customer Summary from %s to %s", fromLabel, toLabel), st.subtitle)
	w.headerCells(SummarySheet, st.header,
		"Customer ID", "Customer Name", "Mobile", "Email",
		"Order Count", "Total Amount (₹)", "Avg Amount (₹)")

	columnStyles := func(rowStyle int) []int {
		return []int{st.center, rowStyle, st.center, rowStyle, st.center, st.money, st.money}
	}
	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, s := range summaries {
		rowIdx := i + headerRow
		row := rowIdx + 1
		rowStyle := 0
		if rowIdx%2 == 0 {
			rowStyle = st.highlight
		}
		styles := columnStyles(rowStyle)
		for c, value := range s.GetCellValues() {
			w.cell(SummarySheet, columns[c], row, value, styles[c])
		}
	}

	lastData := len(summaries) + headerRow
	totalRow := lastData + 1
	w.cell(SummarySheet, "D", totalRow, "TOTAL:", st.header)
	w.formula(SummarySheet, "E", totalRow,
		fmt.Sprintf("SUM('%s'!E%d:E%d)", SummarySheet, firstDataRow, lastData), st.totalCount)
	w.formula(SummarySheet, "F", totalRow,
		fmt.Sprintf("SUM('%s'!F%d:F%d)", SummarySheet, firstDataRow, lastData), st.totalMoney)
}

func writeAnalysisSheet(w *sheetWriter, st sheetStyles, days []models.DailySummary, title, fromLabel, toLabel string) {
	w.colWidth(AnalysisSheet, "A", "D", 20)
	w.mergedBand(AnalysisSheet, "A1", "D1", title, st.title)
	w.mergedBand(AnalysisSheet, "A2", "D2", fmt.Sprintf("Sales Analysis from %s to %s", fromLabel, toLabel), st.subtitle)
	w.headerCells(AnalysisSheet, st.header,
		"Date", "Order Count", "Total Revenue (₹)", "Avg Order Value (₹)")

	for i, d := range days {
		rowIdx := i + headerRow
		row := rowIdx + 1
		rowStyle := 0
		if rowIdx%2 == 0 {
			rowStyle = st.highlight
		}
		w.cell(AnalysisSheet, "A", row, d.Date.Format(dayFormat), rowStyle)
		w.cell(AnalysisSheet, "B", row, d.OrderCount, st.center)
		w.cell(AnalysisSheet, "C", row, d.TotalAmount.InexactFloat64(), st.money)
		w.cell(AnalysisSheet, "D", row, d.AverageOrderValue().InexactFloat64(), st.money)
	}
}

func addSalesChart(f *excelize.File, dayCount int) error {
	lastRow := dayCount + headerRow
	revenue := excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$C$%d", AnalysisSheet, headerRow),
			Categories: fmt.Sprintf("'%s'!$A$%d:$A$%d", AnalysisSheet, firstDataRow, lastRow),
			Values:     fmt.Sprintf("'%s'!$C$%d:$C$%d", AnalysisSheet, firstDataRow, lastRow),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3498DB"}},
		}},
		Title:     []excelize.RichTextRun{{Text: "Daily Sales Performance"}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Date"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Revenue (₹)"}}},
		Dimension: excelize.ChartDimension{Width: 960, Height: 435},
	}
	average := excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$D$%d", AnalysisSheet, headerRow),
			Categories: fmt.Sprintf("'%s'!$A$%d:$A$%d", AnalysisSheet, firstDataRow, lastRow),
			Values:     fmt.Sprintf("'%s'!$D$%d:$D$%d", AnalysisSheet, firstDataRow, lastRow),
			Line:       excelize.ChartLine{Width: 2.5},
		}},
		YAxis: excelize.ChartAxis{Secondary: true, Title: []excelize.RichTextRun{{Text: "Avg Order (₹)"}}},
	}
	return f.AddChart(AnalysisSheet, "F5", &revenue, &average)
}

type sheetStyles struct {
	title      int
	subtitle   int
	header     int
	date       int
	money      int
	center     int
	highlight  int
	totalMoney int
	totalCount int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	var err error

	moneyFmt := moneyFormat
	dateFmt := detailDateFormat

	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "2C3E50"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    []excelize.Border{{Type: "bottom", Color: "2C3E50", Style: 6}},
	}); err != nil {
		return st, err
	}
	if st.subtitle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true, Color: "7F8C8D"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    []excelize.Border{{Type: "bottom", Color: "7F8C8D", Style: 2}},
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3498DB"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}); err != nil {
		return st, err
	}
	if st.date, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	if st.money, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return st, err
	}
	if st.center, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	if st.highlight, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F8F9FA"}},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}); err != nil {
		return st, err
	}
	if st.totalMoney, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3498DB"}},
		CustomNumFmt: &moneyFmt,
	}); err != nil {
		return st, err
	}
	if st.totalCount, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	return st, nil
}

// sheetWriter carries the first error of a render so call sites stay flat.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) cell(sheet, column string, row int, value interface{}, styleID int) {
	if w.err != nil {
		return
	}
	axis := fmt.Sprintf("%s%d", column, row)
	if w.err = w.f.SetCellValue(sheet, axis, value); w.err != nil {
		return
	}
	if styleID != 0 {
		w.err = w.f.SetCellStyle(sheet, axis, axis, styleID)
	}
}

func (w *sheetWriter) formula(sheet, column string, row int, formula string, styleID int) {
	if w.err != nil {
		return
	}
	axis := fmt.Sprintf("%s%d", column, row)
	if w.err = w.f.SetCellFormula(sheet, axis, formula); w.err != nil {
		return
	}
	if styleID != 0 {
		w.err = w.f.SetCellStyle(sheet, axis, axis, styleID)
	}
}

func (w *sheetWriter) mergedBand(sheet, from, to string, value string, styleID int) {
	if w.err != nil {
		return
	}
	if w.err = w.f.MergeCell(sheet, from, to); w.err != nil {
		return
	}
	if w.err = w.f.SetCellValue(sheet, from, value); w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, styleID)
}

func (w *sheetWriter) headerCells(sheet string, styleID int, headers ...string) {
	if w.err != nil {
		return
	}
	for i, h := range headers {
		axis, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			w.err = err
			return
		}
		if w.err = w.f.SetCellValue(sheet, axis, h); w.err != nil {
			return
		}
		if w.err = w.f.SetCellStyle(sheet, axis, axis, styleID); w.err != nil {
			return
		}
	}
}

func (w *sheetWriter) colWidth(sheet, from, to string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, from, to, width)
}
