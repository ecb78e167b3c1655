package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/Ronniet1977/CamperShowBackup/cmd/campershow-server/app"
)

func main() {
	app.NewApp().Run()
}
