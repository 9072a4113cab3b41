package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/remittance-ledger/pkg/bootstrap"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/handlers/websockets"
)

var handler *websockets.Handler

func init() {
	config.LoadEnv()
	cfg := config.Load()

	if !cfg.UseDynamoDB() {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	c, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("unable to build services, %v", err)
	}
	handler = websockets.NewHandler(c.Store, []byte(cfg.JWTSecret))
}

// HandleRequest routes API Gateway WebSocket events by route key.
func HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return handler.HandleConnect(ctx, request)
	case "$disconnect":
		return handler.HandleDisconnect(ctx, request)
	case "$default":
		return handler.HandleDefault(ctx, request)
	}
	log.Printf("Unknown route %q", request.RequestContext.RouteKey)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
