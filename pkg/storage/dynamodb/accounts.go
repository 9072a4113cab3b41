package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// CreateAccount creates a new account record in DynamoDB.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	accountAV, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(account_id)"), // Prevent overwriting existing accounts.
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("%w: account %s", storage.ErrAlreadyExists, account.Id)
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account by ID with a strongly consistent read.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%w: account %s", storage.ErrNotFound, accountID)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

// ListAccounts retrieves all accounts.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.AccountsTableName),
	}

	var accounts []models.Account
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table: %w", err)
		}
		var page []models.Account
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		accounts = append(accounts, page...)
		if len(result.LastEvaluatedKey) == 0 {
			return accounts, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// SetAccountStatus enables or soft-disables an account.
func (s *Store) SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error {
	nowAV, err := attributevalue.Marshal(s.clock())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		UpdateExpression:    aws.String("SET #status = :status, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(account_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":inc":    &types.AttributeValueMemberN{Value: "1"},
			":now":    nowAV,
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("%w: account %s", storage.ErrNotFound, accountID)
		}
		return fmt.Errorf("failed to update account status: %w", err)
	}
	return nil
}
