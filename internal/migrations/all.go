package migrations

// All returns every schema migration keyed by version; the runner applies
// them in ascending order.
func All() map[int64]Migrate {
	return map[int64]Migrate{
		1: createUsersTable(),
		2: createFormFieldsTable(),
		3: createEmployeesTable(),
		4: addLastLoginToUsers(),
	}
}
