package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const connectionsAccountGSI = "account_id-index"

// WebSocketConnection represents a record in the WebSocket connections table.
type WebSocketConnection struct {
	ConnectionID string `dynamodbav:"connection_id"`
	AccountID    string `dynamodbav:"account_id"`
}

// AddConnection saves a new WebSocket connection for an account.
func (s *Store) AddConnection(ctx context.Context, connectionID, accountID string) error {
	item, err := attributevalue.MarshalMap(WebSocketConnection{ConnectionID: connectionID, AccountID: accountID})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a WebSocket connection ID from the database.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Key: map[string]types.AttributeValue{
			"connection_id": &types.AttributeValueMemberS{Value: connectionID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// GetConnectionsForAccount retrieves the open connection IDs of an account.
func (s *Store) GetConnectionsForAccount(ctx context.Context, accountID string) ([]string, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.ConnectionsTableName),
		IndexName:              aws.String(connectionsAccountGSI),
		KeyConditionExpression: aws.String("account_id = :account"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account": &types.AttributeValueMemberS{Value: accountID},
		},
		ProjectionExpression: aws.String("connection_id"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections table: %w", err)
	}

	var connections []WebSocketConnection
	if err := attributevalue.UnmarshalListOfMaps(items, &connections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}

	connectionIDs := make([]string, len(connections))
	for i, conn := range connections {
		connectionIDs[i] = conn.ConnectionID
	}
	return connectionIDs, nil
}
