package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type entryRules struct {
	Description string      `validate:"required"`
	LineCount   int         `validate:"min=2"`
	Lines       []lineRules `validate:"dive"`
}

type lineRules struct {
	AccountID string `validate:"required"`
}

// validateJournalEntry returns every rule the entry violates, in a stable order.
func validateJournalEntry(entry domain.JournalEntry) []string {
	var problems []string

	rules := entryRules{
		Description: strings.TrimSpace(entry.Description),
		LineCount:   len(entry.Lines),
		Lines:       make([]lineRules, len(entry.Lines)),
	}
	for i, line := range entry.Lines {
		rules.Lines[i] = lineRules{AccountID: strings.TrimSpace(line.AccountID)}
	}
	if err := validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []string{err.Error()}
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeRule(fe))
		}
	}

	if entry.Date.IsZero() {
		problems = append(problems, "date is required")
	}

	recalculated := entry
	recalculated.Recalculate()
	if len(entry.Lines) > 0 && !recalculated.IsBalanced {
		problems = append(problems, fmt.Sprintf("entry is not balanced: debits %s, credits %s",
			recalculated.TotalDebits.StringFixed(2), recalculated.TotalCredits.StringFixed(2)))
	}

	for i, line := range entry.Lines {
		n := i + 1
		switch {
		case line.Debit.IsNegative() || line.Credit.IsNegative():
			problems = append(problems, fmt.Sprintf("line %d: amounts must not be negative", n))
		case line.Debit.IsZero() && line.Credit.IsZero():
			problems = append(problems, fmt.Sprintf("line %d: either debit or credit must be greater than zero", n))
		case line.Debit.IsPositive() && line.Credit.IsPositive():
			problems = append(problems, fmt.Sprintf("line %d: cannot have both debit and credit", n))
		}
	}

	if entry.Status == domain.StatusReversed && entry.ReversalEntryID == "" {
		problems = append(problems, "reversed entry must reference its reversal entry")
	}
	return problems
}

func describeRule(fe validator.FieldError) string {
	ns := fe.Namespace()
	switch {
	case fe.Field() == "Description":
		return "description is required"
	case fe.Field() == "LineCount":
		return "entry must have at least two lines"
	case strings.Contains(ns, ".Lines["):
		return fmt.Sprintf("line %s: account is required", lineNumber(ns))
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// lineNumber turns "entryRules.Lines[2].AccountID" into "3".
func lineNumber(namespace string) string {
	start := strings.Index(namespace, "[")
	end := strings.Index(namespace, "]")
	if start < 0 || end <= start {
		return "?"
	}
	var idx int
	if _, err := fmt.Sscanf(namespace[start+1:end], "%d", &idx); err != nil {
		return "?"
	}
	return fmt.Sprint(idx + 1)
}
