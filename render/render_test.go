package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"loan-risk/domain"
)

func testReport() domain.Report {
	return domain.Report{
		ID:             "3f1c9d2e-5b7a-4c1e-9f00-1234567890ab",
		GeneratedAt:    time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC),
		Title:          "Loan Default Prediction Report",
		SchemaVersion:  "v1",
		Verdict:        "Likely to default",
		Confidence:     0.73,
		PredictionText: "Risk: Likely to DEFAULT (Confidence: 0.73)",
		RepaymentText:  "Monthly Repayment: EUR 322.67\nTotal Repayment: EUR 11616.12 over 36 months",
		CreditText:     "Credit Score: 650 (50 below the benchmark of 700)",
		Credit:         domain.CreditComparison{Score: 650, Benchmark: 700, Difference: -50},
		Prediction:     domain.PredictionResult{Label: domain.LabelDefault, Probability: 0.73},
		Plan: domain.RepaymentPlan{
			MonthlyPayment: 322.67,
			TotalPayment:   11616.12,
			TotalInterest:  1616.12,
			TermMonths:     36,
		},
		Applicant: []domain.Field{
			{Name: "Reference", Value: "Zoë case"},
			{Name: "Age", Value: "30"},
			{Name: "Education", Value: "Master's"},
		},
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"", "text", "TXT", " text "} {
		r, err := ForFormat(format)
		require.NoError(t, err, format)
		assert.IsType(t, &TextRenderer{}, r)
	}

	r, err := ForFormat("xlsx")
	require.NoError(t, err)
	assert.IsType(t, &XLSXRenderer{}, r)

	_, err = ForFormat("pdf")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	report := testReport()
	assert.Equal(t, "loan_report_3f1c9d2e.txt", FileName(NewTextRenderer(), report))
	assert.Equal(t, "loan_report_3f1c9d2e.xlsx", FileName(NewXLSXRenderer(), report))

	report.ID = ""
	assert.Equal(t, "loan_report_report.txt", FileName(NewTextRenderer(), report))
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, testReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Loan Default Prediction Report\n"+strings.Repeat("=", 30)+"\n"))
	assert.Contains(t, out, "Report ID: 3f1c9d2e-5b7a-4c1e-9f00-1234567890ab\n")
	assert.Contains(t, out, "Generated: 2024-03-14 09:30:00 UTC\n")
	assert.Contains(t, out, "Prediction: Risk: Likely to DEFAULT (Confidence: 0.73)\n")
	assert.Contains(t, out, "Repayment Summary:\nMonthly Repayment: EUR 322.67\nTotal Repayment: EUR 11616.12 over 36 months\n")
	assert.Contains(t, out, "Credit Score Benchmark:\nCredit Score: 650 (50 below the benchmark of 700)\n")
	assert.Contains(t, out, "Applicant Details:\nReference: Zo? case\nAge: 30\nEducation: Master's\n")

	for _, r := range out {
		assert.True(t, r == '\n' || (r >= 0x20 && r < 0x7f), "non-ASCII %q", r)
	}
}

func TestTextRenderer_ContentType(t *testing.T) {
	r := NewTextRenderer()
	assert.Equal(t, "text/plain; charset=us-ascii", r.ContentType())
	assert.Equal(t, "txt", r.Extension())
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewXLSXRenderer()
	require.NoError(t, r.Render(&buf, testReport()))
	assert.Equal(t, "xlsx", r.Extension())

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	require.Len(t, summary.Rows, 15)

	labels := make(map[string]*xlsx.Cell, len(summary.Rows))
	for _, row := range summary.Rows {
		require.Len(t, row.Cells, 2)
		labels[row.Cells[0].String()] = row.Cells[1]
	}
	assert.Equal(t, "Likely to default", labels["Verdict"].String())
	assert.Equal(t, "Risk: Likely to DEFAULT (Confidence: 0.73)", labels["Prediction"].String())
	assert.Equal(t, "700", labels["Credit Score Benchmark"].String())
	assert.Equal(t, "-50", labels["Credit Score Difference"].String())

	monthly, err := labels["Monthly Repayment"].Float()
	require.NoError(t, err)
	assert.InDelta(t, 322.67, monthly, 1e-9)

	term, err := labels["Term (months)"].Int()
	require.NoError(t, err)
	assert.Equal(t, 36, term)

	applicant, ok := f.Sheet["Applicant"]
	require.True(t, ok)
	require.Len(t, applicant.Rows, 4)
	assert.Equal(t, "Field", applicant.Rows[0].Cells[0].String())
	assert.Equal(t, "Education", applicant.Rows[3].Cells[0].String())
	assert.Equal(t, "Master's", applicant.Rows[3].Cells[1].String())
}
