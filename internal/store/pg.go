package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the store tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Account{},
		&schema.Token{},
		&schema.CustodyEvent{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// storageError tags a database failure with the storage sentinel so callers
// can distinguish it from domain outcomes
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}

func eventToRow(event domain.CustodyEvent, raw []byte) schema.CustodyEvent {
	row := schema.CustodyEvent{
		TokenID:     event.TokenID,
		EventType:   schema.CustodyEventType(event.Type()),
		FromAddress: event.From,
		ToAddress:   event.To,
		TxHash:      event.TxHash,
		Timestamp:   event.Timestamp,
	}
	if len(raw) > 0 {
		row.Raw = datatypes.JSON(raw)
	}
	return row
}

func rowToEvent(row schema.CustodyEvent) domain.CustodyEvent {
	return domain.CustodyEvent{
		TokenID:   row.TokenID,
		From:      row.FromAddress,
		To:        row.ToAddress,
		TxHash:    row.TxHash,
		Timestamp: row.Timestamp,
	}
}

// AppendCustodyEvent appends a confirmed custody event to the log.
// The unique index on tx_hash makes re-appending the same confirmed
// transaction a no-op, so a retried request cannot duplicate history.
func (s *pgStore) AppendCustodyEvent(ctx context.Context, event domain.CustodyEvent, raw []byte) error {
	row := eventToRow(event, raw)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return storageError("failed to append custody event", err)
	}
	return nil
}

// CustodyHistory returns all custody events for a token ordered by
// (timestamp, id) ascending, so equal-timestamp events keep append order
func (s *pgStore) CustodyHistory(ctx context.Context, tokenID uint64) ([]domain.CustodyEvent, error) {
	var rows []schema.CustodyEvent
	err := s.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("failed to get custody history", err)
	}

	events := make([]domain.CustodyEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, rowToEvent(row))
	}
	return events, nil
}

// CreateTokenMint persists the token metadata and the mint custody event in
// a single transaction
func (s *pgStore) CreateTokenMint(ctx context.Context, input CreateTokenMintInput) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token := schema.Token{
			TokenID:        input.Info.TokenID,
			Brand:          input.Info.Brand,
			ProductName:    input.Info.ProductName,
			ProductionDate: input.Info.ProductionDate,
			ExpirationDate: input.Info.ExpirationDate,
			Details:        input.Info.Details,
			MintedBy:       input.MintedBy,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoNothing: true,
		}).Create(&token).Error; err != nil {
			return err
		}

		row := eventToRow(input.Event, input.Raw)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).Create(&row).Error
	})
	if err != nil {
		return storageError("failed to create token mint", err)
	}
	return nil
}

// TokenInfoByID retrieves token metadata by ledger token id
func (s *pgStore) TokenInfoByID(ctx context.Context, tokenID uint64) (*domain.TokenInfo, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("failed to get token", err)
	}

	info := tokenToInfo(token)
	return &info, nil
}

// TokenInfoByIDs retrieves metadata for multiple tokens
func (s *pgStore) TokenInfoByIDs(ctx context.Context, tokenIDs []uint64) ([]*domain.TokenInfo, error) {
	if len(tokenIDs) == 0 {
		return []*domain.TokenInfo{}, nil
	}

	var tokens []schema.Token
	err := s.db.WithContext(ctx).
		Where("token_id IN ?", tokenIDs).
		Find(&tokens).Error
	if err != nil {
		return nil, storageError("failed to get tokens by ids", err)
	}

	infos := make([]*domain.TokenInfo, 0, len(tokens))
	for _, token := range tokens {
		info := tokenToInfo(token)
		infos = append(infos, &info)
	}
	return infos, nil
}

func tokenToInfo(token schema.Token) domain.TokenInfo {
	return domain.TokenInfo{
		TokenID:        token.TokenID,
		Brand:          token.Brand,
		ProductName:    token.ProductName,
		ProductionDate: token.ProductionDate,
		ExpirationDate: token.ExpirationDate,
		Details:        token.Details,
	}
}

// AccountByAddress retrieves an account by wallet address.
// The lookup canonicalizes the address first since rows store EIP-55 form.
func (s *pgStore) AccountByAddress(ctx context.Context, address string) (*domain.Account, error) {
	canonical, err := domain.CanonicalAddress(address)
	if err != nil {
		return nil, err
	}

	var account schema.Account
	err = s.db.WithContext(ctx).Where("address = ?", canonical).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("failed to get account by address", err)
	}

	return rowToAccount(account), nil
}

// AccountByID retrieves an account by its identifier
func (s *pgStore) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("failed to get account by id", err)
	}

	return rowToAccount(account), nil
}

// CreateAccount registers a new directory entry with a canonical address
func (s *pgStore) CreateAccount(ctx context.Context, account domain.Account) error {
	if !domain.IsValidRole(account.Role) {
		return fmt.Errorf("invalid role %q", account.Role)
	}
	canonical, err := domain.CanonicalAddress(account.Address)
	if err != nil {
		return err
	}

	row := schema.Account{
		ID:          account.ID,
		Address:     canonical,
		Role:        string(account.Role),
		DisplayName: account.DisplayName,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storageError("failed to create account", err)
	}
	return nil
}

func rowToAccount(row schema.Account) *domain.Account {
	return &domain.Account{
		ID:          row.ID,
		Address:     row.Address,
		Role:        domain.Role(row.Role),
		DisplayName: row.DisplayName,
	}
}
