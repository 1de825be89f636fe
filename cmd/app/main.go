package main

import (
	"go.uber.org/fx"

	"github.com/tilontare9353-art/Telagram-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
