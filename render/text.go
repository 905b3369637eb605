package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"loan-risk/domain"
)

// TextRenderer writes a plain text report restricted to printable ASCII,
// the same character budget as a core-font PDF.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) ContentType() string { return "text/plain; charset=us-ascii" }

func (r *TextRenderer) Extension() string { return "txt" }

func (r *TextRenderer) Render(w io.Writer, report domain.Report) error {
	bw := bufio.NewWriter(w)

	title := ascii(report.Title)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", len(title)))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Report ID: %s\n", ascii(report.ID))
	fmt.Fprintf(bw, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Prediction: %s\n", ascii(report.PredictionText))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Repayment Summary:")
	fmt.Fprintln(bw, ascii(report.RepaymentText))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Credit Score Benchmark:")
	fmt.Fprintln(bw, ascii(report.CreditText))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Applicant Details:")
	for _, f := range report.Applicant {
		fmt.Fprintf(bw, "%s: %s\n", ascii(f.Name), ascii(f.Value))
	}

	if err := bw.Flush(); err != nil {
		return eris.Wrap(err, "render: write text report")
	}
	return nil
}

// ascii replaces whatever the sanitizer let through that the format cannot
// carry, such as accented letters.
func ascii(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || (r >= 0x20 && r < 0x7f) {
			return r
		}
		return '?'
	}, s)
}
