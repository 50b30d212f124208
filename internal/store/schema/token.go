package schema

import "time"

// Token represents the tokens table holding the manufacturer-assigned
// metadata recorded at mint time. Ownership is never stored here; it is
// derived by replaying custody events.
type Token struct {
	// TokenID is the ledger token id assigned by the contract at mint
	TokenID uint64 `gorm:"column:token_id;primaryKey"`
	// Brand is the product brand name
	Brand string `gorm:"column:brand;not null;type:text"`
	// ProductName is the product's display name
	ProductName string `gorm:"column:product_name;not null;type:text"`
	// ProductionDate is when the physical good was produced
	ProductionDate time.Time `gorm:"column:production_date;not null;type:timestamptz"`
	// ExpirationDate is when the physical good expires
	ExpirationDate time.Time `gorm:"column:expiration_date;not null;type:timestamptz"`
	// Details holds free-form product details
	Details string `gorm:"column:details;type:text"`
	// MintedBy is the display name of the minting manufacturer
	MintedBy string `gorm:"column:minted_by;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
