package repository

import (
	"context"
	"fmt"

	"insightx/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// batchSize keeps multi-row inserts under the Postgres bind parameter limit.
const batchSize = 1000

var transactionColumns = []string{
	"id", "amount", "merchant_category", "sender_state", "sender_bank", "device_type",
	"network_type", "transaction_type", "sender_age_group", "transaction_status",
	"fraud_flag", "hour_of_day", "day_of_week", "month", "is_weekend",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func insertTransactionsQuery(transactions []models.Transaction) squirrel.InsertBuilder {
	builder := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.Amount, tx.Category, tx.State, tx.Bank, tx.Device,
			tx.Network, tx.TxType, tx.AgeGroup, tx.Status, tx.Fraud, tx.Hour, tx.Day, tx.Month, tx.Weekend)
	}
	return builder
}

func selectTransactionsQuery() squirrel.SelectBuilder {
	return squirrel.Select(transactionColumns...).
		From("transactions").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)
}

// CreateBatch inserts transactions in chunks; rows with an existing id are ignored.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []models.Transaction) error {
	for start := 0; start < len(transactions); start += batchSize {
		end := min(start+batchSize, len(transactions))

		sql, args, err := insertTransactionsQuery(transactions[start:end]).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if _, err := r.db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert transactions %d-%d: %w", start, end, err)
		}
	}

	r.logger.Info("Transactions stored", zap.Int("count", len(transactions)))
	return nil
}

// LoadRecordSet reads the whole transactions table. The table carries every
// field, so the record set has the full schema.
func (r *TransactionRepository) LoadRecordSet(ctx context.Context) (models.RecordSet, error) {
	set := models.RecordSet{Name: "postgres:transactions", Fields: models.AllFields()}

	sql, args, err := selectTransactionsQuery().ToSql()
	if err != nil {
		return set, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return set, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Amount, &tx.Category, &tx.State, &tx.Bank, &tx.Device,
			&tx.Network, &tx.TxType, &tx.AgeGroup, &tx.Status, &tx.Fraud,
			&tx.Hour, &tx.Day, &tx.Month, &tx.Weekend,
		); err != nil {
			return set, fmt.Errorf("failed to scan transaction: %w", err)
		}
		set.Records = append(set.Records, tx)
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("failed to read transactions: %w", err)
	}

	r.logger.Info("Transactions loaded", zap.Int("count", len(set.Records)))
	return set, nil
}
