package parser

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"sdtr/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	passedBadge = "span.passed"
	failedBadge = "span.failed"
	errorBadge  = "span.error"

	resultRow    = "tbody.results-table-row"
	nameColumn   = ".col-name"
	resultColumn = ".col-result"
)

// HTMLReportParser reads pytest-html reports
type HTMLReportParser struct {
	logger *slog.Logger
}

// NewHTMLReportParser creates a new HTMLReportParser. A nil logger discards output.
func NewHTMLReportParser(logger *slog.Logger) *HTMLReportParser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTMLReportParser{logger: logger}
}

// Parse reads the summary badges and every detail row of the report at reportPath.
// Counts come from the badges; detail rows only fill the per-group listing.
func (p *HTMLReportParser) Parse(target, reportPath string) (*domain.TargetResult, error) {
	file, err := os.Open(reportPath)
	if err != nil {
		return nil, &domain.ReportParseError{Target: target, Path: reportPath, Reason: "read report", Err: err}
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, &domain.ReportParseError{Target: target, Path: reportPath, Reason: "parse html", Err: err}
	}

	fail := func(reason string, err error) error {
		return &domain.ReportParseError{Target: target, Path: reportPath, Reason: reason, Err: err}
	}

	passed, err := badgeCount(doc, passedBadge)
	if err != nil {
		return nil, fail("passed count", err)
	}
	failures, err := badgeCount(doc, failedBadge)
	if err != nil {
		return nil, fail("failed count", err)
	}
	errs, err := badgeCount(doc, errorBadge)
	if err != nil {
		return nil, fail("error count", err)
	}

	result := domain.NewTargetResult(target, passed, failures+errs)

	var rowErr error
	doc.Find(resultRow).EachWithBreak(func(i int, row *goquery.Selection) bool {
		id := strings.TrimSpace(row.Find(nameColumn).First().Text())
		group, test, ok := SplitNodeID(id)
		if !ok {
			rowErr = fail(fmt.Sprintf("row %d", i+1), fmt.Errorf("unexpected test identifier %q", id))
			return false
		}
		result.AddTestCaseResult(domain.TestCaseResult{
			Group:  group,
			Name:   DisplayName(test),
			Result: strings.TrimSpace(row.Find(resultColumn).First().Text()),
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	if dp, df := result.DetailCounts(); dp != result.Passed() || df != result.Failed() {
		warning := fmt.Sprintf("detail rows show %d passed / %d failed, summary shows %d passed / %d failed",
			dp, df, result.Passed(), result.Failed())
		result.Warnings = append(result.Warnings, warning)
		p.logger.Warn("report counts disagree", "target", target, "detail", warning)
	}

	return result, nil
}

// badgeCount reads the leading integer of a summary badge like "12 passed"
func badgeCount(doc *goquery.Document, selector string) (int, error) {
	badge := doc.Find(selector).First()
	if badge.Length() == 0 {
		return 0, fmt.Errorf("missing %s badge", selector)
	}
	fields := strings.Fields(badge.Text())
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty %s badge", selector)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("badge %s: %w", selector, err)
	}
	return n, nil
}
