package numbering

import (
	"strings"

	"github.com/agsexpress/backoffice/config"
)

// gstRegistrationMinLen guards against placeholder values like "NA" in the
// customer master's GST column.
const gstRegistrationMinLen = 2

// GSTRegistered reports whether a tax registration number is good enough to
// route the customer to the GST numbering series.
func GSTRegistered(gstNumber string) bool {
	return len(strings.TrimSpace(gstNumber)) > gstRegistrationMinLen
}

// ResolveSeries picks the numbering series for one invoice. The company display
// name is matched case-insensitively against each rule's substring matcher; the
// first rule is the primary billing entity and applies when nothing matches or
// no company was given. Whether the customer is GST registered picks the series
// within the rule; the cash/credit distinction deliberately plays no part here.
func ResolveSeries(rules []config.SeriesRule, companyName string, gstRegistered bool) Series {
	if len(rules) == 0 {
		return Series{}
	}
	rule := rules[0]
	if companyName != "" {
		name := strings.ToLower(companyName)
		for _, r := range rules[1:] {
			if r.Match != "" && strings.Contains(name, strings.ToLower(r.Match)) {
				rule = r
				break
			}
		}
	}
	if gstRegistered {
		return Series{Prefix: rule.GSTPrefix, Start: rule.GSTStart}
	}
	return Series{Prefix: rule.NonGSTPrefix, Start: rule.NonGSTStart}
}
