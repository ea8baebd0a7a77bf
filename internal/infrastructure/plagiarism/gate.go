package plagiarism

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// PLAGIARISM GATE CONTRACT
// =====================================================

// Verdict classifies the originality of a piece of text.
type Verdict string

const (
	VerdictOK      Verdict = "ok"
	VerdictFlagged Verdict = "flagged"
	VerdictFailed  Verdict = "failed"
)

// Result is the outcome of one gate invocation. Score is a 0-100
// similarity percentage; nil when the check failed.
type Result struct {
	Verdict Verdict
	Score   *decimal.Decimal
}

// Gate is the external originality-check contract. Implementations must
// honor ctx deadlines; callers treat any error as advisory (the article
// save proceeds with a failed-check marker).
type Gate interface {
	Check(ctx context.Context, text string) (Result, error)
}
