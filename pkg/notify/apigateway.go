package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// PostToConnectionAPI is the subset of the API Gateway management client used here.
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// Connections looks up and prunes an account's WebSocket connections.
type Connections interface {
	GetConnectionsForAccount(ctx context.Context, accountID string) ([]string, error)
	RemoveConnection(ctx context.Context, connectionID string) error
}

// APIGatewayPublisher posts messages to API Gateway WebSocket connections.
type APIGatewayPublisher struct {
	connections Connections
	client      PostToConnectionAPI
}

// NewAPIGatewayPublisher creates a publisher for the given management endpoint.
func NewAPIGatewayPublisher(ctx context.Context, connections Connections, apiEndpoint string) (*APIGatewayPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})
	return NewPublisher(connections, client), nil
}

// NewPublisher creates a publisher around an existing client.
func NewPublisher(connections Connections, client PostToConnectionAPI) *APIGatewayPublisher {
	return &APIGatewayPublisher{connections: connections, client: client}
}

// Publish sends a message to every connection of the message's account. Delivery
// failures are logged; stale connections are deleted.
func (p *APIGatewayPublisher) Publish(ctx context.Context, message Message) error {
	if message.AccountId == "" {
		return fmt.Errorf("message has no account")
	}
	connectionIDs, err := p.connections.GetConnectionsForAccount(ctx, message.AccountId)
	if err != nil {
		return fmt.Errorf("failed to get connections: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				slog.Info("stale connection found, deleting", "connectionId", connectionID)
				if err := p.connections.RemoveConnection(ctx, connectionID); err != nil {
					slog.Error("failed to delete stale connection", "error", err)
				}
			} else {
				slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
			}
		}
	}

	return nil
}

var _ Publisher = (*APIGatewayPublisher)(nil)
var _ PostToConnectionAPI = (*apigatewaymanagementapi.Client)(nil)
