package main

import (
	"os"

	"github.com/lobbyboard/lobbyboard/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
