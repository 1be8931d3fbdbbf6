// Package answercheck judges player answers against the staged question
// bank. Stage 1 expects an arithmetic expression built from a fixed multiset
// of numbers; every other stage falls back to a normalized text comparison.
package answercheck

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Validation failures. All of them collapse to an incorrect answer at the
// Check boundary; the concrete reason only reaches the debug log so the
// player gets no hints from error text.
var (
	ErrInvalidCharacter    = errf("disallowed character in expression")
	ErrNonIntegerLiteral   = errf("decimal literal with non-zero fraction")
	ErrUnexpectedNumber    = errf("number outside the required set")
	ErrMissingNumber       = errf("required number missing from expression")
	ErrMalformedExpression = errf("malformed arithmetic expression")
	ErrDivisionByZero      = errf("division by zero")
	ErrInputTooLarge       = errf("expression exceeds length limit")
	ErrDepthExceeded       = errf("expression nested too deeply")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

const (
	defaultTolerance = 1e-9
	defaultMaxLen    = 1000
	defaultMaxDepth  = 64
)

// StageRule describes how one stage judges answers. A non-empty
// RequiredNumbers switches the stage to arithmetic mode: the candidate must
// be an expression using each listed number exactly once.
type StageRule struct {
	RequiredNumbers []int
}

// Checker is safe for concurrent use; it holds no mutable state beyond its
// configuration.
type Checker struct {
	rules     map[int]StageRule
	tolerance float64
	maxLen    int
	maxDepth  int
	log       *zap.Logger
}

type Option func(*Checker)

func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRule sets or replaces the rule for a stage.
func WithRule(stage int, rule StageRule) Option {
	return func(c *Checker) { c.rules[stage] = rule }
}

// WithLimits overrides the defensive input limits. Zero keeps the default.
func WithLimits(maxLen, maxDepth int) Option {
	return func(c *Checker) {
		if maxLen > 0 {
			c.maxLen = maxLen
		}
		if maxDepth > 0 {
			c.maxDepth = maxDepth
		}
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{
		rules: map[int]StageRule{
			1: {RequiredNumbers: []int{1, 2, 3, 7}},
		},
		tolerance: defaultTolerance,
		maxLen:    defaultMaxLen,
		maxDepth:  defaultMaxDepth,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether candidate answers the stage's question. Malformed
// input never surfaces as an error: the caller sees an incorrect answer.
func (c *Checker) Check(candidate, canonical string, stage int) bool {
	if rule, ok := c.rules[stage]; ok && len(rule.RequiredNumbers) > 0 {
		correct, err := c.checkArithmetic(candidate, canonical, rule.RequiredNumbers)
		if err != nil {
			c.log.Debug("answer rejected",
				zap.Int("stage", stage),
				zap.String("reason", err.Error()),
			)
			return false
		}
		return correct
	}
	return normalizeText(candidate) == normalizeText(canonical)
}

func (c *Checker) checkArithmetic(candidate, canonical string, required []int) (bool, error) {
	target, err := strconv.ParseFloat(strings.TrimSpace(canonical), 64)
	if err != nil {
		return false, ErrMalformedExpression
	}

	expr := strings.TrimSpace(candidate)
	// Letter-style multiplication ("2x3") is common enough to tolerate.
	expr = strings.ReplaceAll(expr, "x", "*")
	expr = strings.ReplaceAll(expr, "X", "*")

	cleaned, err := sanitize(expr, c.maxLen)
	if err != nil {
		return false, err
	}
	if err := checkNumbers(cleaned, required); err != nil {
		return false, err
	}
	got, err := evaluate(cleaned, c.maxDepth)
	if err != nil {
		return false, err
	}
	return math.Abs(got-target) <= c.tolerance, nil
}

// normalizeText lowercases, maps every non-alphanumeric rune to a space and
// collapses whitespace runs, so "  The Answer!! " equals "the answer".
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
