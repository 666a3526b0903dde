package services

import (
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Storage and numbering share the document store so one transaction covers both.
	container.Storage = NewJournalStorageService(repos.Store, WithStrictWrites(cfg.StrictWrites))
	container.Numbering = NewNumberingService(repos.Store)

	resolverOpts := []ResolverOption{WithKeywordFallback(cfg.KeywordFallback)}
	if repos.RoleMappings != nil {
		resolverOpts = append(resolverOpts, WithRoleMappings(repos.RoleMappings))
	}
	container.Resolver = NewAccountResolver(resolverOpts...)

	container.Journal = NewJournalService(
		container.Storage,
		container.Numbering,
		container.Resolver,
		WithChartOfAccounts(repos.Chart),
		WithAuditSink(repos.Audit),
	)
	container.Reporting = NewReportingService(container.Storage, repos.Chart)
	container.Summary = NewSummaryService()

	return container
}
