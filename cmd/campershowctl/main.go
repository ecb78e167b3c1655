package main

import (
	"github.com/Ronniet1977/CamperShowBackup/cmd/campershowctl/app"
)

func main() {
	app.Run()
}
