package models

// All returns every persistence model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&ItemModel{},
		&PartyModel{},
		&OrderModel{},
		&OrderLineModel{},
		&OrderHistoryModel{},
		&DocumentModel{},
		&DocumentLineModel{},
		&DocumentPaymentModel{},
		&TransactionModel{},
	}
}
