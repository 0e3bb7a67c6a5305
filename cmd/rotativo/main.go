package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	"github.com/rotativo/rotativo/internal/config"
	"github.com/rotativo/rotativo/internal/migration"
	"github.com/rotativo/rotativo/internal/observability"
	"github.com/rotativo/rotativo/internal/server"
	"github.com/rotativo/rotativo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
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
