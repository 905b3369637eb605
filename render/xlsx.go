package render

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"loan-risk/domain"
)

const (
	summarySheet   = "Summary"
	applicantSheet = "Applicant"
)

// XLSXRenderer writes the report as a workbook with a summary sheet and an
// applicant details sheet.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Extension() string { return "xlsx" }

func (r *XLSXRenderer) Render(w io.Writer, report domain.Report) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(summarySheet)
	if err != nil {
		return eris.Wrap(err, "render: add summary sheet")
	}
	addStringRow(summary, "Title", report.Title)
	addStringRow(summary, "Report ID", report.ID)
	addStringRow(summary, "Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	addStringRow(summary, "Verdict", report.Verdict)
	addFloatRow(summary, "Confidence", report.Confidence, "0.00")
	addFloatRow(summary, "Default Probability", report.Prediction.Probability, "0.0000")
	addFloatRow(summary, "Monthly Repayment", report.Plan.MonthlyPayment, "#,##0.00")
	addFloatRow(summary, "Total Repayment", report.Plan.TotalPayment, "#,##0.00")
	addFloatRow(summary, "Total Interest", report.Plan.TotalInterest, "#,##0.00")
	addIntRow(summary, "Term (months)", report.Plan.TermMonths)
	addIntRow(summary, "Credit Score", report.Credit.Score)
	addIntRow(summary, "Credit Score Benchmark", report.Credit.Benchmark)
	addIntRow(summary, "Credit Score Difference", report.Credit.Difference)
	addStringRow(summary, "Prediction", report.PredictionText)
	addStringRow(summary, "Repayment Summary", report.RepaymentText)

	applicant, err := f.AddSheet(applicantSheet)
	if err != nil {
		return eris.Wrap(err, "render: add applicant sheet")
	}
	addStringRow(applicant, "Field", "Value")
	for _, field := range report.Applicant {
		addStringRow(applicant, field.Name, field.Value)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "render: write workbook")
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func addFloatRow(sheet *xlsx.Sheet, label string, value float64, format string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloatWithFormat(value, format)
}

func addIntRow(sheet *xlsx.Sheet, label string, value int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(value)
}
