package main

import (
	"context"
	"encoding/json"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"law-ai-api/internal/config"
	"law-ai-api/internal/handlers"
	"law-ai-api/pkg/lambda"
	"law-ai-api/pkg/server"
)

// gateway turns raw Lambda payloads into dispatcher calls
type gateway struct {
	connections *server.ConnectionManager
	format      lambda.EventFormat

	// fallback renders errors when no container could be built
	fallback *handlers.Dispatcher
}

func newGateway(connections *server.ConnectionManager, format lambda.EventFormat, corsOrigin string) *gateway {
	return &gateway{
		connections: connections,
		format:      format,
		fallback: handlers.NewDispatcher(handlers.DispatcherConfig{
			Cors: handlers.DefaultCorsPolicy(corsOrigin),
		}),
	}
}

func (g *gateway) Handle(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	req, err := lambda.DecodeEvent(payload, g.format)
	if err != nil {
		return g.encode(g.fallback.RenderError(nil, handlers.BadRequest("Malformed event", err))), nil
	}

	container, err := g.connections.GetContainer(ctx)
	if err != nil {
		return g.encode(g.fallback.RenderError(req, err)), nil
	}

	return g.encode(container.Dispatcher.Handle(ctx, req)), nil
}

func (g *gateway) encode(resp *lambda.Response) interface{} {
	if g.format == lambda.EventFormatHTTP {
		return lambda.ToHTTPResponse(resp)
	}
	return lambda.ToProxyResponse(resp)
}

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	connections := server.NewConnectionManager(func() (*config.Config, error) {
		return cfg, nil
	})

	awslambda.Start(newGateway(connections, cfg.Gateway.EventFormat, cfg.Gateway.CORSAllowOrigin).Handle)
}
