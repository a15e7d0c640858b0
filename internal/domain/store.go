package domain

// DataStore is the data access layer. It is the only owner of persisted
// state; memory.Store and postgres.Store both satisfy it.
type DataStore interface {
	Tenants() TenantRepository
	Users() UserRepository
	Teams() TeamRepository
	Tasks() TaskRepository
	AuditLogs() AuditRepository
}
