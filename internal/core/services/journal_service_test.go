package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/mma_ledger/internal/adapters/chart"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/memstore"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memstore.Store
	storage portssvc.JournalStorageSvcFacade
	audit   *MockAuditSink
	journal portssvc.JournalSvcFacade
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.storage = services.NewJournalStorageService(s.store)
	s.audit = new(MockAuditSink)
	s.journal = services.NewJournalService(
		s.storage,
		services.NewNumberingService(s.store),
		services.NewAccountResolver(services.WithKeywordFallback(true)),
		services.WithChartOfAccounts(chart.NewStaticChart(chartAccounts())),
		services.WithAuditSink(s.audit),
		services.WithJournalClock(clock),
	)
}

func (s *JournalServiceTestSuite) TearDownTest() {
	s.audit.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) formRequest(status string, lines ...dto.CreateJournalEntryLineRequest) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:        "2024-01-05",
		Description: "Consulting invoice",
		CompanyID:   "1",
		Status:      status,
		Lines:       lines,
	}
}

func formLine(accountID string, debit, credit dto.AmountString) dto.CreateJournalEntryLineRequest {
	return dto.CreateJournalEntryLineRequest{AccountID: accountID, Debit: debit, Credit: credit}
}

// createPosted stores a posted manual entry and returns it.
func (s *JournalServiceTestSuite) createPosted(debitAccount, creditAccount string, amount dto.AmountString) *domain.JournalEntry {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)
	entry, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("posted",
		formLine(debitAccount, amount, ""),
		formLine(creditAccount, "", amount),
	))
	s.Require().NoError(err)
	return entry
}

func (s *JournalServiceTestSuite) TestCreateFromForm_Draft() {
	s.audit.On("Record", mock.Anything, mock.MatchedBy(func(a domain.AuditAction) bool {
		return a.Action == domain.AuditCreate && a.ActorID == testActor.ID && a.Details == "Created journal entry JE-001"
	})).Return(nil).Once()

	entry, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "100.50", ""),
		formLine("revenue", "abc", "100.5"),
	))
	s.Require().NoError(err)

	s.Equal("JE-001", entry.EntryNumber)
	s.Equal(domain.StatusDraft, entry.Status)
	s.Equal(domain.SourceManual, entry.Source)
	s.Equal(day("2024-01-05"), entry.Date)
	s.True(entry.TotalDebits.Equal(dec("100.50")))
	s.True(entry.Lines[1].Debit.IsZero(), "unparseable amounts default to zero")
	s.True(entry.IsBalanced)
	s.Equal(testActor.ID, entry.CreatedBy)
	s.Equal(testActor.FullName, entry.CreatedByName)
	s.Empty(entry.ApprovedBy)
	s.Nil(entry.PostedAt)

	stored, err := s.journal.GetEntry(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(entry.EntryNumber, stored.EntryNumber)
}

func (s *JournalServiceTestSuite) TestCreateFromForm_ImmediatePostSelfApproves() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)

	entry, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("posted",
		formLine("bank", "250", ""),
		formLine("revenue", "", "250"),
	))
	s.Require().NoError(err)

	s.Equal(domain.StatusPosted, entry.Status)
	s.Equal(testActor.ID, entry.ApprovedBy)
	s.Equal(testActor.ID, entry.PostedBy)
	s.Equal(testActor.FullName, entry.PostedByName)
	s.Require().NotNil(entry.PostedAt)
	s.Equal(fixedNow, *entry.PostedAt)
	s.Equal(fixedNow, *entry.ApprovedAt)

	s.audit.AssertCalled(s.T(), "Record", mock.Anything, auditOf(domain.AuditCreate, entry.ID))
	s.audit.AssertCalled(s.T(), "Record", mock.Anything, auditOf(domain.AuditPost, entry.ID))
}

func (s *JournalServiceTestSuite) TestCreateFromForm_RejectsUnbalanced() {
	_, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "100", "0"),
		formLine("revenue", "0", "90"),
	))
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "100")
	s.Contains(err.Error(), "90")

	entries, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
	s.audit.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateFromForm_AcceptsWithinTolerance() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	entry, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "100.004", ""),
		formLine("revenue", "", "100"),
	))
	s.Require().NoError(err)
	s.True(entry.Lines[0].Debit.Equal(dec("100")), entry.Lines[0].Debit.String())
	s.True(entry.IsBalanced)
}

func (s *JournalServiceTestSuite) TestCreateFromForm_RoundsLinesBeforeBalancing() {
	_, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "100.005", ""),
		formLine("revenue", "", "100"),
	))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "entry is not balanced: debits 100.01, credits 100.00")

	entries, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *JournalServiceTestSuite) TestCreateFromForm_ValidationProblems() {
	tests := map[string]dto.CreateJournalEntryRequest{
		"too few lines": s.formRequest("", formLine("bank", "10", "")),
		"bad status":    s.formRequest("reversed", formLine("bank", "10", ""), formLine("revenue", "", "10")),
		"both sides":    s.formRequest("", formLine("bank", "10", "10"), formLine("revenue", "0", "0")),
		"no account":    s.formRequest("", formLine("", "10", ""), formLine("revenue", "", "10")),
		"bad date": func() dto.CreateJournalEntryRequest {
			r := s.formRequest("", formLine("bank", "10", ""), formLine("revenue", "", "10"))
			r.Date = "05/01/2024"
			return r
		}(),
		"no description": func() dto.CreateJournalEntryRequest {
			r := s.formRequest("", formLine("bank", "10", ""), formLine("revenue", "", "10"))
			r.Description = "  "
			return r
		}(),
		"no date": func() dto.CreateJournalEntryRequest {
			r := s.formRequest("", formLine("bank", "10", ""), formLine("revenue", "", "10"))
			r.Date = ""
			return r
		}(),
	}
	for name, req := range tests {
		_, err := s.journal.CreateFromForm(s.ctx, testActor, req)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (s *JournalServiceTestSuite) TestCreateFromForm_StorageFailure() {
	journal := services.NewJournalService(
		services.NewJournalStorageService(failingStore{}),
		services.NewNumberingService(failingStore{}),
		services.NewAccountResolver(),
		services.WithAuditSink(s.audit),
	)
	_, err := journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "10", ""),
		formLine("revenue", "", "10"),
	))
	s.ErrorIs(err, apperrors.ErrStorage)
	s.audit.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateFromForm_AuditFailureDoesNotFail() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit down")).Once()
	entry, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "10", ""),
		formLine("revenue", "", "10"),
	))
	s.Require().NoError(err)
	s.NotEmpty(entry.ID)
}

func (s *JournalServiceTestSuite) TestConvert_IncomeWithCOGS() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)
	record := domain.BookkeepingEntry{
		ID:        "inc-1",
		Type:      domain.BookkeepingIncome,
		Amount:    decimal.NewNullDecimal(dec("500")),
		COGS:      decimal.NewNullDecimal(dec("200")),
		Category:  "Sales",
		CompanyID: "1",
		Date:      day("2024-01-20"),
	}

	entry, err := s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, record, chartAccounts())
	s.Require().NoError(err)

	s.Require().Len(entry.Lines, 4)
	want := []struct {
		account       string
		debit, credit string
	}{
		{"bank", "500", "0"},
		{"revenue", "0", "500"},
		{"cogs", "200", "0"},
		{"inventory", "0", "200"},
	}
	for i, w := range want {
		s.Equal(w.account, entry.Lines[i].AccountID)
		s.True(entry.Lines[i].Debit.Equal(dec(w.debit)), "line %d debit", i)
		s.True(entry.Lines[i].Credit.Equal(dec(w.credit)), "line %d credit", i)
	}
	s.True(entry.IsBalanced)
	s.True(entry.TotalDebits.Equal(dec("700")))
	s.Equal(domain.StatusPosted, entry.Status)
	s.Equal(domain.SourceAutoIncome, entry.Source)
	s.Equal("inc-1", entry.SourceID)
	s.Equal(day("2024-01-20"), entry.Date)
	s.Equal("JE-001", entry.EntryNumber)
	s.Equal(testActor.ID, entry.ApprovedBy)
}

func (s *JournalServiceTestSuite) TestConvert_ExpenseLoadsChart() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)
	charts := new(MockChart)
	charts.On("ListAccounts", mock.Anything, "1").Return(chartAccounts(), nil).Once()
	journal := services.NewJournalService(
		s.storage,
		services.NewNumberingService(s.store),
		services.NewAccountResolver(services.WithKeywordFallback(true)),
		services.WithChartOfAccounts(charts),
		services.WithAuditSink(s.audit),
	)

	entry, err := journal.ConvertFromBookkeepingEntry(s.ctx, testActor, domain.BookkeepingEntry{
		ID:        "exp-1",
		Type:      domain.BookkeepingExpense,
		Amount:    decimal.NewNullDecimal(dec("75.25")),
		Category:  "Rent",
		CompanyID: "1",
		Date:      day("2024-01-03"),
	}, nil)
	s.Require().NoError(err)

	s.Require().Len(entry.Lines, 2)
	s.Equal("rent", entry.Lines[0].AccountID)
	s.True(entry.Lines[0].Debit.Equal(dec("75.25")))
	s.Equal("bank", entry.Lines[1].AccountID)
	s.True(entry.Lines[1].Credit.Equal(dec("75.25")))
	s.Equal(domain.SourceAutoExpense, entry.Source)
	charts.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestConvert_RejectsDuplicateSource() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)
	record := domain.BookkeepingEntry{
		ID: "exp-1", Type: domain.BookkeepingExpense, Amount: decimal.NewNullDecimal(dec("10")),
		Category: "Rent", CompanyID: "1", Date: day("2024-01-03"),
	}
	_, err := s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, record, chartAccounts())
	s.Require().NoError(err)

	_, err = s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, record, chartAccounts())
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *JournalServiceTestSuite) TestConvert_Failures() {
	noAmount := domain.BookkeepingEntry{ID: "x", Type: domain.BookkeepingIncome, CompanyID: "1", Category: "Sales"}
	_, err := s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, noAmount, chartAccounts())
	s.ErrorIs(err, apperrors.ErrValidation)

	negative := noAmount
	negative.Amount = decimal.NewNullDecimal(dec("-5"))
	_, err = s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, negative, chartAccounts())
	s.ErrorIs(err, apperrors.ErrValidation)

	unknownCategory := domain.BookkeepingEntry{
		ID: "y", Type: domain.BookkeepingExpense, Amount: decimal.NewNullDecimal(dec("10")),
		Category: "Travel", CompanyID: "1",
	}
	_, err = s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, unknownCategory, chartAccounts())
	s.ErrorIs(err, apperrors.ErrConfiguration)

	noInventory := domain.BookkeepingEntry{
		ID: "z", Type: domain.BookkeepingIncome, Amount: decimal.NewNullDecimal(dec("10")),
		COGS: decimal.NewNullDecimal(dec("4")), Category: "Sales", CompanyID: "1",
	}
	var withoutInventory []domain.Account
	for _, acc := range chartAccounts() {
		if acc.ID != "inventory" {
			withoutInventory = append(withoutInventory, acc)
		}
	}
	_, err = s.journal.ConvertFromBookkeepingEntry(s.ctx, testActor, noInventory, withoutInventory)
	s.ErrorIs(err, apperrors.ErrConfiguration)
	s.Contains(err.Error(), "inventory")

	entries, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *JournalServiceTestSuite) TestPostEntry_IsIdempotent() {
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	draft, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "40", ""),
		formLine("revenue", "", "40"),
	))
	s.Require().NoError(err)

	approver := domain.Actor{ID: "user-2", FullName: "Bob"}
	s.audit.On("Record", mock.Anything, auditOf(domain.AuditPost, draft.ID)).Return(nil).Once()

	first, err := s.journal.PostEntry(s.ctx, approver, draft.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, first.Status)
	s.Equal(draft.ID, first.ID)
	s.Equal("user-2", first.ApprovedBy)
	s.Equal("user-2", first.PostedBy)

	second, err := s.journal.PostEntry(s.ctx, testActor, draft.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, second.Status)
	s.Equal("user-2", second.PostedBy)

	all, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *JournalServiceTestSuite) TestPostEntry_UnbalancedDraftFailsWithoutChange() {
	draft := postedEntry("d1", "JE-001", "2024-01-01", "1", line("bank", "10", "0"), line("revenue", "0", "8"))
	draft.Status = domain.StatusDraft
	s.Require().NoError(s.storage.SaveAll(s.ctx, []domain.JournalEntry{draft}))

	for i := 0; i < 2; i++ {
		_, err := s.journal.PostEntry(s.ctx, testActor, "d1")
		s.ErrorIs(err, apperrors.ErrStateTransition)
		s.Contains(err.Error(), "not balanced")
	}
	stored, err := s.storage.GetByID(s.ctx, "d1")
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, stored.Status)
	s.Nil(stored.PostedAt)
}

func (s *JournalServiceTestSuite) TestPostEntry_NotFoundAndReversed() {
	_, err := s.journal.PostEntry(s.ctx, testActor, "missing")
	s.ErrorIs(err, apperrors.ErrStateTransition)
	s.ErrorIs(err, apperrors.ErrNotFound)

	reversed := postedEntry("r1", "JE-001", "2024-01-01", "1", line("bank", "10", "0"), line("revenue", "0", "10"))
	reversed.Status = domain.StatusReversed
	reversed.ReversalEntryID = "r2"
	s.Require().NoError(s.storage.SaveAll(s.ctx, []domain.JournalEntry{reversed}))

	_, err = s.journal.PostEntry(s.ctx, testActor, "r1")
	s.ErrorIs(err, apperrors.ErrStateTransition)
	s.Contains(err.Error(), "already reversed")
}

func (s *JournalServiceTestSuite) TestReverseEntry_ExactMirror() {
	original := s.createPosted("bank", "revenue", "1000")

	s.audit.On("Record", mock.Anything, auditOf(domain.AuditReverse, original.ID)).Return(nil).Once()
	s.audit.On("Record", mock.Anything, mock.MatchedBy(func(a domain.AuditAction) bool {
		return a.Action == domain.AuditCreate && a.EntityID != original.ID
	})).Return(nil).Once()

	reversal, err := s.journal.ReverseEntry(s.ctx, testActor, original.ID, "duplicate invoice")
	s.Require().NoError(err)

	s.Require().Len(reversal.Lines, len(original.Lines))
	for i := range original.Lines {
		s.True(reversal.Lines[i].Debit.Equal(original.Lines[i].Credit))
		s.True(reversal.Lines[i].Credit.Equal(original.Lines[i].Debit))
		s.Equal(original.Lines[i].AccountID, reversal.Lines[i].AccountID)
		s.NotEqual(original.Lines[i].ID, reversal.Lines[i].ID)
	}
	s.True(reversal.TotalDebits.Equal(original.TotalCredits))
	s.True(reversal.TotalCredits.Equal(original.TotalDebits))
	s.True(reversal.IsBalanced)
	s.Equal(domain.StatusPosted, reversal.Status)
	s.Equal(testActor.ID, reversal.ApprovedBy)
	s.Equal("REVERSAL: Consulting invoice (Reason: duplicate invoice)", reversal.Description)
	s.Equal("REV-"+original.EntryNumber, reversal.Reference)
	s.Equal(domain.SourceManual, reversal.Source)
	s.Equal(original.ID, reversal.SourceID)
	s.Equal("JE-002", reversal.EntryNumber)
	s.Equal(domain.TruncateDay(fixedNow), reversal.Date)

	stored, err := s.storage.GetByID(s.ctx, original.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, stored.Status)
	s.Equal(reversal.ID, stored.ReversalEntryID)
	s.Equal(testActor.ID, stored.ReversedBy)
	s.Require().NotNil(stored.ReversedAt)
	s.Empty(s.journal.ValidateEntry(*stored))
}

func (s *JournalServiceTestSuite) TestReverseEntry_Failures() {
	_, err := s.journal.ReverseEntry(s.ctx, testActor, "missing", "")
	s.ErrorIs(err, apperrors.ErrStateTransition)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	draft, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("bank", "10", ""),
		formLine("revenue", "", "10"),
	))
	s.Require().NoError(err)
	_, err = s.journal.ReverseEntry(s.ctx, testActor, draft.ID, "")
	s.ErrorIs(err, apperrors.ErrStateTransition)

	posted := s.createPosted("bank", "revenue", "10")
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Times(2)
	reversal, err := s.journal.ReverseEntry(s.ctx, testActor, posted.ID, "")
	s.Require().NoError(err)
	s.Equal("REVERSAL: Consulting invoice", reversal.Description)

	_, err = s.journal.ReverseEntry(s.ctx, testActor, posted.ID, "")
	s.ErrorIs(err, apperrors.ErrStateTransition)

	all, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *JournalServiceTestSuite) TestReverseEntry_FailedWriteCommitsNothing() {
	original := s.createPosted("bank", "revenue", "1000")

	broken := services.NewJournalService(
		services.NewJournalStorageService(entriesWriteFailStore{s.store}),
		services.NewNumberingService(s.store),
		services.NewAccountResolver(),
		services.WithAuditSink(s.audit),
		services.WithJournalClock(clock),
	)
	_, err := broken.ReverseEntry(s.ctx, testActor, original.ID, "duplicate invoice")
	s.ErrorIs(err, apperrors.ErrStorage)

	all, err := s.storage.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(domain.StatusPosted, all[0].Status)
	s.Empty(all[0].ReversalEntryID)

	preview, err := s.journal.PreviewNextNumber(s.ctx)
	s.Require().NoError(err)
	s.Equal("JE-002", preview)
}

func (s *JournalServiceTestSuite) TestListEntriesAndPreview() {
	s.createPosted("bank", "revenue", "10")
	s.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	_, err := s.journal.CreateFromForm(s.ctx, testActor, s.formRequest("",
		formLine("rent", "5", ""),
		formLine("bank", "", "5"),
	))
	s.Require().NoError(err)

	all, next, err := s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{CompanyID: "1"})
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Nil(next)

	drafts, _, err := s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{Status: "draft"})
	s.Require().NoError(err)
	s.Require().Len(drafts, 1)
	s.Equal("JE-002", drafts[0].EntryNumber)

	none, _, err := s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{CompanyID: "2"})
	s.Require().NoError(err)
	s.Empty(none)

	_, _, err = s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{Status: "deleted"})
	s.ErrorIs(err, apperrors.ErrValidation)

	preview, err := s.journal.PreviewNextNumber(s.ctx)
	s.Require().NoError(err)
	s.Equal("JE-003", preview)
}

func (s *JournalServiceTestSuite) TestListEntries_PagesNewestFirst() {
	seeded := []domain.JournalEntry{
		postedEntry("a", "JE-001", "2024-01-03", "1", line("bank", "1", "0"), line("revenue", "0", "1")),
		postedEntry("b", "JE-002", "2024-01-01", "1", line("bank", "1", "0"), line("revenue", "0", "1")),
		postedEntry("c", "JE-003", "2024-01-02", "1", line("bank", "1", "0"), line("revenue", "0", "1")),
		postedEntry("d", "JE-004", "2024-01-02", "1", line("bank", "1", "0"), line("revenue", "0", "1")),
		postedEntry("e", "JE-005", "2024-01-05", "2", line("bank", "1", "0"), line("revenue", "0", "1")),
	}
	s.Require().NoError(s.storage.SaveAll(s.ctx, seeded))

	ids := func(entries []domain.JournalEntry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	page, next, err := s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{CompanyID: "1", Limit: 2})
	s.Require().NoError(err)
	s.Equal([]string{"a", "d"}, ids(page))
	s.Require().NotNil(next)

	page, next, err = s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{CompanyID: "1", Limit: 2, NextToken: *next})
	s.Require().NoError(err)
	s.Equal([]string{"c", "b"}, ids(page))
	s.Nil(next)

	_, _, err = s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{Limit: 2, NextToken: "not-a-token"})
	s.ErrorIs(err, apperrors.ErrValidation)
	_, _, err = s.journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{Limit: 501})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestValidateEntry_ReportsEveryProblem() {
	entry := domain.JournalEntry{
		Status: domain.StatusReversed,
		Lines: []domain.JournalEntryLine{
			{AccountID: "", Debit: dec("10"), Credit: dec("5")},
		},
	}
	problems := s.journal.ValidateEntry(entry)
	s.ElementsMatch([]string{
		"description is required",
		"entry must have at least two lines",
		"line 1: account is required",
		"date is required",
		"entry is not balanced: debits 10.00, credits 5.00",
		"line 1: cannot have both debit and credit",
		"reversed entry must reference its reversal entry",
	}, problems)

	zero := postedEntry("z", "JE-001", "2024-01-01", "1", line("bank", "0", "0"), line("revenue", "-1", "0"))
	problems = s.journal.ValidateEntry(zero)
	s.Contains(problems, "line 1: either debit or credit must be greater than zero")
	s.Contains(problems, "line 2: amounts must not be negative")

	valid := postedEntry("v", "JE-002", "2024-01-01", "1", line("bank", "10", "0"), line("revenue", "0", "10"))
	s.Empty(s.journal.ValidateEntry(valid))
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
