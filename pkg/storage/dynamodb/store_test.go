package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTables = Tables{
	Transactions: "transactions",
	Accounts:     "accounts",
	Ledger:       "ledger",
	Connections:  "connections",
}

func newTestStore(client DynamoDBAPI) *Store {
	s := New(client, testTables)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func reserveMutation() storage.LedgerMutation {
	return storage.LedgerMutation{
		AccountId:     "acct-1",
		TransactionId: "tx-1",
		Kind:          models.EntryReserve,
		Amount:        money.FromInt(5025),
		Currency:      money.NGN,
		Description:   "reserve",
	}
}

func cancelled(t *testing.T, reasons ...types.CancellationReason) error {
	t.Helper()
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled"),
		CancellationReasons: reasons,
	}
}

func conditionFailed(t *testing.T, item interface{}) types.CancellationReason {
	t.Helper()
	r := types.CancellationReason{Code: aws.String(conditionalCheckFailed)}
	if item != nil {
		av, err := attributevalue.MarshalMap(item)
		require.NoError(t, err)
		r.Item = av
	}
	return r
}

func none() types.CancellationReason {
	return types.CancellationReason{Code: aws.String("None")}
}

func TestReserve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 2 {
				return false
			}
			update := in.TransactItems[0].Update
			put := in.TransactItems[1].Put
			return update != nil && put != nil &&
				*update.TableName == "accounts" &&
				*update.ConditionExpression == "attribute_exists(account_id) AND balance >= :amount AND #status = :active AND currency = :currency" &&
				*put.TableName == "ledger" &&
				put.Item["entry_id"].(*types.AttributeValueMemberS).Value == "tx-1#reserve"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.NoError(t, err)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		acct := models.Account{Id: "acct-1", Currency: money.NGN, Balance: money.FromInt(1000), Status: models.ACTIVE}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, acct), none()))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		acct := models.Account{Id: "acct-1", Currency: money.KES, Balance: money.FromInt(100000), Status: models.ACTIVE}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, acct), none()))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.ErrorIs(t, err, storage.ErrCurrencyMismatch)
	})

	t.Run("Account Disabled", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		acct := models.Account{Id: "acct-1", Currency: money.NGN, Balance: money.FromInt(100000), Status: models.DISABLED}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, acct), none()))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.ErrorIs(t, err, storage.ErrAccountDisabled)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, nil), none()))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Already Applied", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, none(), conditionFailed(t, nil)))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.ErrorIs(t, err, storage.ErrAlreadyApplied)
	})

	t.Run("Invalid Mutation", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		m := reserveMutation()
		m.Amount = money.FromInt(0)

		err := newTestStore(mockClient).Reserve(context.Background(), m)
		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := newTestStore(mockClient).Reserve(context.Background(), reserveMutation())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute transaction")
	})
}

func TestCredit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			update := in.TransactItems[0].Update
			return *update.UpdateExpression == "SET balance = balance + :amount, version = version + :inc, updated_at = :now" &&
				*update.ConditionExpression == "attribute_exists(account_id) AND currency = :currency"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		m := reserveMutation()
		m.Kind = models.EntryCredit
		err := newTestStore(mockClient).Credit(context.Background(), m)
		assert.NoError(t, err)
	})

	t.Run("Rejects Debit Kind", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		err := newTestStore(mockClient).Credit(context.Background(), reserveMutation())
		assert.Error(t, err)
	})
}

func TestUpdateTransaction(t *testing.T) {
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeBankTransfer,
		AccountId: "acct-1",
		Amount:    money.FromInt(5000),
		Currency:  money.NGN,
	})

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			put := in.TransactItems[0].Put
			return put != nil &&
				put.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN).Value == "0" &&
				put.Item["version"].(*types.AttributeValueMemberN).Value == "1"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		updated := tx.Clone()
		require.NoError(t, updated.Transition(models.PROCESSING, "Submitted", nil, time.Now()))
		err := newTestStore(mockClient).UpdateTransaction(context.Background(), updated, models.PENDING)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), updated.Version)
	})

	t.Run("Status Conflict", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		stored := tx.Clone()
		stored.Status = models.COMPLETED
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, stored)))

		updated := tx.Clone()
		err := newTestStore(mockClient).UpdateTransaction(context.Background(), updated, models.PENDING)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		assert.Equal(t, int64(0), updated.Version)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, nil)))

		err := newTestStore(mockClient).UpdateTransaction(context.Background(), tx.Clone(), models.PENDING)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCreateTransaction(t *testing.T) {
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeInternalTransfer,
		AccountId: "acct-1",
		Amount:    money.FromInt(100),
		Currency:  money.NGN,
	})

	t.Run("Success With Reservation", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3 &&
				*in.TransactItems[0].Put.ConditionExpression == "attribute_not_exists(id)"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		m := reserveMutation()
		m.TransactionId = tx.Id
		err := newTestStore(mockClient).CreateTransaction(context.Background(), tx, m)
		assert.NoError(t, err)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled(t, conditionFailed(t, nil)))

		err := newTestStore(mockClient).CreateTransaction(context.Background(), tx)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestGetTransaction(t *testing.T) {
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeBankTransfer,
		AccountId: "acct-1",
		Amount:    money.FromInt(5000),
		Currency:  money.NGN,
	})
	item, err := attributevalue.MarshalMap(tx)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		got, err := newTestStore(mockClient).GetTransaction(context.Background(), tx.Id)
		require.NoError(t, err)
		assert.Equal(t, tx.Reference, got.Reference)
		assert.True(t, tx.Amount.Equal(got.Amount))
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := newTestStore(mockClient).GetTransaction(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("By Reference", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == referenceGSI
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
			{"id": &types.AttributeValueMemberS{Value: tx.Id}},
		}}, nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		got, err := newTestStore(mockClient).GetTransactionByReference(context.Background(), tx.Reference)
		require.NoError(t, err)
		assert.Equal(t, tx.Id, got.Id)
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := newTestStore(mockClient).GetTransactionByReference(context.Background(), "TXN-NOPE")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListTransactionsByAccount(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	older := models.NewTransaction(models.NewTransactionParams{Type: models.TypeInternalTransfer, AccountId: "acct-1", Counterparty: "acct-2", Amount: money.FromInt(1), Currency: money.NGN, Now: base})
	newer := models.NewTransaction(models.NewTransactionParams{Type: models.TypeInternalTransfer, AccountId: "acct-2", Counterparty: "acct-1", Amount: money.FromInt(2), Currency: money.NGN, Now: base.Add(time.Hour)})
	olderAV, err := attributevalue.MarshalMap(older)
	require.NoError(t, err)
	newerAV, err := attributevalue.MarshalMap(newer)
	require.NoError(t, err)

	mockClient := mocks.NewDynamoDBAPI(t)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == accountCreatedAtGSI
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{olderAV}}, nil)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == counterpartyCreatedAtGSI
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{newerAV, olderAV}}, nil)

	txs, err := newTestStore(mockClient).ListTransactionsByAccount(context.Background(), "acct-1", base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, newer.Id, txs[0].Id)
	assert.Equal(t, older.Id, txs[1].Id)
}

func TestSortableCreatedAt(t *testing.T) {
	whole := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)

	t.Run("Orders Across Second Boundaries", func(t *testing.T) {
		a := sortableTime(whole).(*types.AttributeValueMemberS).Value
		b := sortableTime(half).(*types.AttributeValueMemberS).Value

		assert.Equal(t, "2025-03-01T12:00:00.000000000Z", a)
		assert.Len(t, b, len(a))
		assert.Less(t, a, b)
	})

	t.Run("Round Trips Through The Record", func(t *testing.T) {
		tx := models.NewTransaction(models.NewTransactionParams{Type: models.TypeBankTransfer, AccountId: "acct-1", Amount: money.FromInt(1), Currency: money.NGN, Now: half})

		item, err := marshalTransaction(tx)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01T12:00:00.500000000Z", item["created_at"].(*types.AttributeValueMemberS).Value)

		var got models.Transaction
		require.NoError(t, attributevalue.UnmarshalMap(item, &got))
		assert.True(t, got.CreatedAt.Equal(half))
	})

	t.Run("Status Query Uses Sortable Cutoff", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			cutoff, ok := in.ExpressionAttributeValues[":cutoff"].(*types.AttributeValueMemberS)
			return ok && cutoff.Value == "2025-03-01T12:00:00.000000000Z"
		})).Return(&dynamodb.QueryOutput{}, nil)

		txs, err := newTestStore(mockClient).ListTransactionsByStatus(context.Background(), models.PENDING, whole)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestAccounts(t *testing.T) {
	account := &models.Account{Id: "acct-1", Currency: money.NGN, Balance: money.FromInt(100000), Status: models.ACTIVE}

	t.Run("Create Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		created, err := newTestStore(mockClient).CreateAccount(context.Background(), account)
		assert.NoError(t, err)
		assert.Equal(t, account, created)
	})

	t.Run("Create Conflict", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := newTestStore(mockClient).CreateAccount(context.Background(), account)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Get Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := newTestStore(mockClient).GetAccount(context.Background(), "acct-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("List Follows Pages", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		item, err := attributevalue.MarshalMap(account)
		require.NoError(t, err)
		lastKey := map[string]types.AttributeValue{"account_id": &types.AttributeValueMemberS{Value: "acct-1"}}
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey == nil
		})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item}}, nil).Once()

		accounts, err := newTestStore(mockClient).ListAccounts(context.Background())
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("Disable Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := newTestStore(mockClient).SetAccountStatus(context.Background(), "acct-1", models.DISABLED)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestConnections(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return *in.TableName == "connections" &&
				in.Item["account_id"].(*types.AttributeValueMemberS).Value == "acct-1"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		assert.NoError(t, newTestStore(mockClient).AddConnection(context.Background(), "conn-1", "acct-1"))
	})

	t.Run("Get For Account", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
			{"connection_id": &types.AttributeValueMemberS{Value: "conn-1"}},
			{"connection_id": &types.AttributeValueMemberS{Value: "conn-2"}},
		}}, nil)

		ids, err := newTestStore(mockClient).GetConnectionsForAccount(context.Background(), "acct-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"conn-1", "conn-2"}, ids)
	})

	t.Run("Remove Error", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		err := newTestStore(mockClient).RemoveConnection(context.Background(), "conn-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete connection")
	})
}
