package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/clock"
	"github.com/smallbiznis/mensa/internal/config"
	"github.com/smallbiznis/mensa/internal/migration"
	"github.com/smallbiznis/mensa/internal/observability"
	"github.com/smallbiznis/mensa/internal/scheduler"
	"github.com/smallbiznis/mensa/internal/server"
	"github.com/smallbiznis/mensa/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
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
