package schema

import "time"

// Account represents the accounts table, the identity directory mapping
// wallet addresses to roles. The role is fixed at creation.
type Account struct {
	// ID is the user-chosen account identifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Address is the account's wallet address, stored in EIP-55 form
	Address string `gorm:"column:address;not null;type:text;uniqueIndex:idx_accounts_address"`
	// Role is the account type (manufacturer, reseller, customer)
	Role string `gorm:"column:role;not null;type:text"`
	// DisplayName is the human-readable account name
	DisplayName string `gorm:"column:display_name;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
