package storage

// ApiStore defines the set of operations needed by the API and the money-movement services.
// It composes other interfaces to provide a clear boundary for their data access.
type ApiStore interface {
	Ledger
	LedgerReader
	AccountStore
	TransactionStore
}
