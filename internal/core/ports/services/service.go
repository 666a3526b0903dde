package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the operator CLI.
type ServiceContainer struct {
	Storage   JournalStorageSvcFacade
	Numbering NumberingSvc
	Resolver  AccountResolverSvc
	Journal   JournalSvcFacade
	Reporting ReportingService
	Summary   SummarySvc
}
