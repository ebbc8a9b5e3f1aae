package main

import (
	"os"

	"github.com/bethropolis/dir-grepper/internal/app"
	"github.com/bethropolis/dir-grepper/internal/config"
)

func main() {
	cfg := config.New()

	application := app.New(cfg)
	code := application.Run()

	if cfg.OutputFile != "" {
		if f, ok := application.Output.(*os.File); ok {
			f.Close()
		}
	}

	os.Exit(code)
}
