package parser

import "sdtr/internal/domain"

// Parser turns a target's rendered report into a TargetResult
type Parser interface {
	Parse(target, reportPath string) (*domain.TargetResult, error)
}
