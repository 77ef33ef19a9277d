package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/techmart/support-chat/agent/agents/orchestrator"
	classifierx "github.com/techmart/support-chat/agent/classifier"
	customersx "github.com/techmart/support-chat/agent/customers"
	mcpx "github.com/techmart/support-chat/agent/mcp"
	routerx "github.com/techmart/support-chat/agent/router"
	streamx "github.com/techmart/support-chat/agent/stream"
	configx "github.com/techmart/support-chat/pkg/config"
	_ "github.com/techmart/support-chat/pkg/logger/autoload"
	openaix "github.com/techmart/support-chat/pkg/openai"
	serverx "github.com/techmart/support-chat/server"
)

func main() {
	openaiCfg := configx.MustNew[openaix.Config]("OPENAI")
	openaiClient := openaix.MustNew(*openaiCfg)

	intentCfg := configx.MustNew[classifierx.Config]("INTENT")
	classifier, err := classifierx.New(&openaiClient.Chat.Completions, openaiCfg.Model, *intentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build intent classifier")
	}

	mcpCfg := configx.MustNew[mcpx.Config]("MCP")
	tools := mcpx.MustNew(*mcpCfg)

	customers := customersx.Default()

	router, err := routerx.New(customers, tools)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build intent router")
	}

	agentCfg := configx.MustNew[orchestratorx.Config]("AGENT")
	agent, err := orchestratorx.New(classifier, router, tools, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	presenter := streamx.New(*configx.MustNew[streamx.Config]("STREAM"))

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv, err := serverx.New(*serverCfg, agent, presenter, customers)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
	log.Info().Msg("shutdown complete")
}
