package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	GoalRepo        GoalRepositoryFacade
	ProfileRepo     ProfileRepositoryFacade
	UserRepo        UserRepositoryFacade
	SessionRepo     SessionRepositoryFacade
}
