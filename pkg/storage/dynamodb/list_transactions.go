package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

const (
	statusCreatedAtGSI       = "status-created_at-index"
	referenceGSI             = "reference-index"
	accountCreatedAtGSI      = "account_id-created_at-index"
	counterpartyCreatedAtGSI = "counterparty_account_id-created_at-index"
)

// GetTransaction retrieves a transaction by its ID with a strongly consistent read.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: txID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%w: transaction %s", storage.ErrNotFound, txID)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return &tx, nil
}

// GetTransactionByReference resolves the reference through its index, then reads
// the record itself so that callers see the latest status.
func (s *Store) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(referenceGSI),
		KeyConditionExpression: aws.String("reference = :ref"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": &types.AttributeValueMemberS{Value: reference},
		},
		ProjectionExpression: aws.String("id"),
		Limit:                aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction by reference: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: reference %s", storage.ErrNotFound, reference)
	}

	var key struct {
		Id string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(result.Items[0], &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction key: %w", err)
	}
	return s.GetTransaction(ctx, key.Id)
}

// ListTransactionsByStatus retrieves transactions in a status created before olderThan.
func (s *Store) ListTransactionsByStatus(ctx context.Context, status models.TransactionStatus, olderThan time.Time) ([]models.Transaction, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(statusCreatedAtGSI),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":cutoff": sortableTime(olderThan),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by status: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	return transactions, nil
}

// ListTransactionsByAccount merges the transactions an account initiated with the
// ones where it is the counterparty, newest first.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error) {
	seen := make(map[string]bool)
	var transactions []models.Transaction
	for _, idx := range []struct{ name, key string }{
		{accountCreatedAtGSI, "account_id"},
		{counterpartyCreatedAtGSI, "counterparty_account_id"},
	} {
		items, err := s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.TransactionsTableName),
			IndexName:              aws.String(idx.name),
			KeyConditionExpression: aws.String(idx.key + " = :account AND created_at >= :since"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":account": &types.AttributeValueMemberS{Value: accountID},
				":since":   sortableTime(since),
			},
			ScanIndexForward: aws.Bool(false),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", idx.name, err)
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		for _, tx := range page {
			if !seen[tx.Id] {
				seen[tx.Id] = true
				transactions = append(transactions, tx)
			}
		}
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}
