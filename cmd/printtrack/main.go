package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/printtrack/internal/config"
	"github.com/smallbiznis/printtrack/internal/migration"
	"github.com/smallbiznis/printtrack/internal/observability"
	"github.com/smallbiznis/printtrack/internal/server"
	"github.com/smallbiznis/printtrack/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
