package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// CreateTransaction stores a new transaction record and applies effects in one
// TransactWriteItems call.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, effects ...storage.LedgerMutation) error {
	var b writeBatch
	if err := s.addCreate(&b, tx); err != nil {
		return err
	}
	now := s.clock()
	for _, m := range effects {
		if err := s.addEffect(&b, m, now); err != nil {
			return err
		}
	}
	return s.execute(ctx, &b)
}

// UpdateTransaction replaces the transaction if its stored status and version
// still match, and applies effects atomically with it.
func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus, effects ...storage.LedgerMutation) error {
	var b writeBatch
	if err := s.addReplace(&b, tx, expected); err != nil {
		return err
	}
	now := s.clock()
	for _, m := range effects {
		if err := s.addEffect(&b, m, now); err != nil {
			return err
		}
	}
	if err := s.execute(ctx, &b); err != nil {
		return err
	}
	tx.Version++
	return nil
}

// CreateRelatedTransaction stores created and updates parent in one call.
func (s *Store) CreateRelatedTransaction(ctx context.Context, created, parent *models.Transaction, parentExpected models.TransactionStatus, effects ...storage.LedgerMutation) error {
	var b writeBatch
	if err := s.addReplace(&b, parent, parentExpected); err != nil {
		return err
	}
	if err := s.addCreate(&b, created); err != nil {
		return err
	}
	now := s.clock()
	for _, m := range effects {
		if err := s.addEffect(&b, m, now); err != nil {
			return err
		}
	}
	if err := s.execute(ctx, &b); err != nil {
		return err
	}
	parent.Version++
	return nil
}

// sortableTimeLayout keeps every timestamp the same width, so range conditions
// on the created_at index keys compare chronologically.
const sortableTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func sortableTime(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.UTC().Format(sortableTimeLayout)}
}

// marshalTransaction writes created_at in the sortable layout. Reads parse it
// as RFC 3339 like any other timestamp.
func marshalTransaction(tx *models.Transaction) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, err
	}
	av["created_at"] = sortableTime(tx.CreatedAt)
	return av, nil
}

func (s *Store) addCreate(b *writeBatch, tx *models.Transaction) error {
	txAV, err := marshalTransaction(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	b.add(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.TransactionsTableName),
			Item:                txAV,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	}, func(types.CancellationReason) error {
		return fmt.Errorf("%w: transaction %s", storage.ErrAlreadyExists, tx.Id)
	})
	return nil
}

// addReplace writes tx at the next version, guarded by the status and version it was read at.
func (s *Store) addReplace(b *writeBatch, tx *models.Transaction, expected models.TransactionStatus) error {
	next := *tx
	next.Version = tx.Version + 1
	txAV, err := marshalTransaction(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	b.add(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.TransactionsTableName),
			Item:                txAV,
			ConditionExpression: aws.String("#status = :expected AND version = :version"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberS{Value: string(expected)},
				":version":  versionAV(tx.Version),
			},
			ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
		},
	}, func(r types.CancellationReason) error {
		if len(r.Item) == 0 {
			return fmt.Errorf("%w: transaction %s", storage.ErrNotFound, tx.Id)
		}
		return fmt.Errorf("%w: transaction %s expected %s v%d", storage.ErrStatusConflict, tx.Id, expected, tx.Version)
	})
	return nil
}
