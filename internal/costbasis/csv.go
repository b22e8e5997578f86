package costbasis

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// capitalGainsHeader is the fixed column order for capital-gains exports.
var capitalGainsHeader = []string{
	"Security", "Portfolio", "Purchase Date", "Sell Date", "Quantity",
	"Cost Basis", "Proceeds", "Gain/Loss", "Holding Days", "Term", "Method",
}

// ExportCapitalGainsCSV serializes the report's realized gain records to
// CSV. Money columns are formatted to exactly two decimal places, the term
// column renders as "Long-Term" or "Short-Term", and the method is
// upper-cased. Fields containing separators or quotes are escaped per RFC
// 4180, so untrusted security identifiers cannot break the row structure.
func ExportCapitalGainsCSV(report *CostBasisReport) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(capitalGainsHeader); err != nil {
		return "", err
	}

	method := strings.ToUpper(report.MethodName)
	for _, r := range report.Realized {
		term := "Short-Term"
		if r.LongTerm {
			term = "Long-Term"
		}

		row := []string{
			r.SecurityID,
			r.PortfolioID,
			r.PurchaseDate.Format("2006-01-02"),
			r.SellDate.Format("2006-01-02"),
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			money(r.CostBasis),
			money(r.Proceeds),
			money(r.GainLoss),
			strconv.Itoa(r.HoldingDays),
			term,
			method,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
