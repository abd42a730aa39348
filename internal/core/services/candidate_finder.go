package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

// sourceKey identifies one internal financial record across source types.
type sourceKey struct {
	Type domain.MatchSourceType
	ID   string
}

// scoredCandidate pairs a match source with its confidence for one line.
type scoredCandidate struct {
	Source     domain.MatchSource
	Confidence float64
}

// candidateFinder searches internal financial sources for plausible matches to
// one statement line and scores confidence. It is shared by the manual match
// service (candidate listing) and the auto-match engine.
type candidateFinder struct {
	sourceRepo portsrepo.SourceReader
	cfg        config.MatchingConfig
}

func newCandidateFinder(sourceRepo portsrepo.SourceReader, cfg config.MatchingConfig) *candidateFinder {
	return &candidateFinder{sourceRepo: sourceRepo, cfg: cfg}
}

// findCandidates returns candidates for the line sorted by descending
// confidence. Ties break on nearer date, then source-type priority, then source
// id ascending, so the ordering is fully deterministic. Sources in consumed are
// excluded. An empty result is not an error.
func (f *candidateFinder) findCandidates(ctx context.Context, line *domain.BankStatementLine, companyID string, currencyCode string, typeFilter *domain.MatchSourceType, consumed map[sourceKey]struct{}) ([]scoredCandidate, error) {
	absAmount := line.Amount.Abs()
	window := time.Duration(f.cfg.DateWindowDays) * 24 * time.Hour

	types := domain.AllSourceTypes
	if typeFilter != nil {
		types = []domain.MatchSourceType{*typeFilter}
	}

	var candidates []scoredCandidate
	for _, sourceType := range types {
		query := portsrepo.SourceCandidateQuery{
			CompanyID:    companyID,
			CurrencyCode: currencyCode,
			SourceType:   sourceType,
			DateFrom:     line.TransactionDate.Add(-window),
			DateTo:       line.TransactionDate.Add(window),
			AmountMin:    absAmount.Sub(f.cfg.AmountEpsilon),
			AmountMax:    absAmount.Add(f.cfg.AmountEpsilon),
		}
		sources, err := f.sourceRepo.FindCandidateSources(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s candidates: %w", sourceType, err)
		}
		for _, source := range sources {
			key := sourceKey{Type: source.SourceType(), ID: source.SourceID()}
			if _, taken := consumed[key]; taken {
				continue
			}
			candidates = append(candidates, scoredCandidate{
				Source:     source,
				Confidence: f.score(line, source),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		distA := dayDistance(line.TransactionDate, a.Source.Date())
		distB := dayDistance(line.TransactionDate, b.Source.Date())
		if distA != distB {
			return distA < distB
		}
		if pa, pb := a.Source.SourceType().Priority(), b.Source.SourceType().Priority(); pa != pb {
			return pa < pb
		}
		return a.Source.SourceID() < b.Source.SourceID()
	})

	return candidates, nil
}

// score computes the confidence of one candidate for one line.
// Exact amount and date scores 1.0; exact amount within the date window decays
// by 0.01 per day from 0.95 with a floor of 0.7; an amount that is merely
// within epsilon loses a configurable penalty; a shared reference token earns
// +0.05 capped at 1.0.
func (f *candidateFinder) score(line *domain.BankStatementLine, source domain.MatchSource) float64 {
	exactAmount := source.Amount().Equal(line.Amount.Abs())
	dist := dayDistance(line.TransactionDate, source.Date())

	var confidence float64
	if dist == 0 {
		confidence = 1.0
	} else {
		confidence = 0.95 - 0.01*float64(dist)
		if confidence < 0.7 {
			confidence = 0.7
		}
	}

	if !exactAmount {
		confidence -= f.cfg.InexactPenalty
	}

	if sharesToken(line.Description+" "+line.ReferenceNumber, source.DisplayReference()+" "+source.DisplayParty()) {
		confidence += 0.05
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

// dayDistance returns the absolute distance between two dates in whole days,
// ignoring the time-of-day component.
func dayDistance(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(ad.Sub(bd).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// sharesToken reports whether the two texts share at least one alphanumeric
// token of three or more characters, case-insensitively.
func sharesToken(a, b string) bool {
	tokensA := tokenize(a)
	if len(tokensA) == 0 {
		return false
	}
	for token := range tokenize(b) {
		if _, ok := tokensA[token]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(field) >= 3 {
			tokens[field] = struct{}{}
		}
	}
	return tokens
}
