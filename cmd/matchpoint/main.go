package main

import (
	"os"

	"github.com/remotestaffing/matchpoint/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
