package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/clock"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	"github.com/Pet-projects-for-experience/Backend/internal/observability"
	"github.com/Pet-projects-for-experience/Backend/internal/server"
	"github.com/Pet-projects-for-experience/Backend/pkg/db"
	"github.com/Pet-projects-for-experience/Backend/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
