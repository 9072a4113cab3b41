package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

const (
	ledgerGSI            = "gsi1pk-timestamp-index"
	ledgerTransactionGSI = "transaction_id-index"

	conditionalCheckFailed = "ConditionalCheckFailed"
)

// onFailure converts the cancellation reason of one transact item into an error.
type onFailure func(types.CancellationReason) error

// writeBatch collects the items of one TransactWriteItems call together with the
// error each item's condition maps to.
type writeBatch struct {
	items    []types.TransactWriteItem
	failures []onFailure
}

func (b *writeBatch) add(item types.TransactWriteItem, f onFailure) {
	b.items = append(b.items, item)
	b.failures = append(b.failures, f)
}

// translate maps a cancelled transaction onto the storage sentinels. It returns
// nil if err is not a conditional cancellation.
func (b *writeBatch) translate(err error) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	for i, r := range tce.CancellationReasons {
		if r.Code == nil || *r.Code != conditionalCheckFailed || i >= len(b.failures) {
			continue
		}
		return b.failures[i](r)
	}
	return nil
}

func (s *Store) execute(ctx context.Context, b *writeBatch) error {
	if len(b.items) == 0 {
		return nil
	}
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: b.items})
	if err != nil {
		if mapped := b.translate(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	return nil
}

// addEffect appends the account update and the ledger entry of one mutation.
// Reserve is a conditional decrement evaluated by DynamoDB, never a read-then-write.
func (s *Store) addEffect(b *writeBatch, m storage.LedgerMutation, now time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	amountAV, err := attributevalue.Marshal(m.Amount)
	if err != nil {
		return fmt.Errorf("failed to marshal amount: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	entryAV, err := attributevalue.MarshalMap(m.Entry(now))
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":amount": amountAV,
		":inc":    &types.AttributeValueMemberN{Value: "1"},
		":now":    nowAV,
	}
	var update, condition string
	if m.Kind.IsDebit() {
		update = "SET balance = balance - :amount, version = version + :inc, updated_at = :now"
		condition = "attribute_exists(account_id) AND balance >= :amount AND #status = :active"
		names["#status"] = "status"
		values[":active"] = &types.AttributeValueMemberS{Value: string(models.ACTIVE)}
	} else {
		update = "SET balance = balance + :amount, version = version + :inc, updated_at = :now"
		condition = "attribute_exists(account_id)"
	}
	if m.Currency != "" {
		condition += " AND currency = :currency"
		values[":currency"] = &types.AttributeValueMemberS{Value: string(m.Currency)}
	}

	accountUpdate := &types.Update{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: m.AccountId},
		},
		UpdateExpression:                    aws.String(update),
		ConditionExpression:                 aws.String(condition),
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
	if len(names) > 0 {
		accountUpdate.ExpressionAttributeNames = names
	}

	b.add(types.TransactWriteItem{Update: accountUpdate}, accountFailure(m))
	b.add(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.LedgerTableName),
			Item:                entryAV,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		},
	}, func(types.CancellationReason) error {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyApplied, models.LedgerEntryID(m.TransactionId, m.Kind))
	})
	return nil
}

// accountFailure uses the item returned with the failed condition to tell the
// failure modes apart.
func accountFailure(m storage.LedgerMutation) onFailure {
	return func(r types.CancellationReason) error {
		if len(r.Item) == 0 {
			return fmt.Errorf("%w: account %s", storage.ErrNotFound, m.AccountId)
		}
		var acct models.Account
		if err := attributevalue.UnmarshalMap(r.Item, &acct); err != nil {
			return fmt.Errorf("failed to unmarshal account from cancellation reason: %w", err)
		}
		if m.Currency != "" && acct.Currency != m.Currency {
			return fmt.Errorf("%w: account %s holds %s, mutation is %s", storage.ErrCurrencyMismatch, acct.Id, acct.Currency, m.Currency)
		}
		if m.Kind.IsDebit() && !acct.IsActive() {
			return fmt.Errorf("%w: %s", storage.ErrAccountDisabled, acct.Id)
		}
		return fmt.Errorf("%w: account %s", storage.ErrInsufficientFunds, acct.Id)
	}
}

// Reserve atomically debits the account if its balance covers the amount.
func (s *Store) Reserve(ctx context.Context, m storage.LedgerMutation) error {
	if !m.Kind.IsDebit() {
		return fmt.Errorf("reserve called with credit kind %q", m.Kind)
	}
	var b writeBatch
	if err := s.addEffect(&b, m, s.clock()); err != nil {
		return err
	}
	return s.execute(ctx, &b)
}

// Credit atomically increments the account balance.
func (s *Store) Credit(ctx context.Context, m storage.LedgerMutation) error {
	if m.Kind.IsDebit() {
		return fmt.Errorf("credit called with debit kind %q", m.Kind)
	}
	var b writeBatch
	if err := s.addEffect(&b, m, s.clock()); err != nil {
		return err
	}
	return s.execute(ctx, &b)
}

// ListLedgerEntries retrieves the most recent ledger entries.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.LedgerPartition},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}

// ListLedgerEntriesByTransaction retrieves the entries written for one transaction.
func (s *Store) ListLedgerEntriesByTransaction(ctx context.Context, txID string) ([]models.LedgerEntry, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerTransactionGSI),
		KeyConditionExpression: aws.String("transaction_id = :tx"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tx": &types.AttributeValueMemberS{Value: txID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for transaction %s: %w", txID, err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}
	return entries, nil
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func versionAV(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}
