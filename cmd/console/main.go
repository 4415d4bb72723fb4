package main

import (
	"os"

	"github.com/cliniccore/clinic-appointment-service/internal/config"
	"github.com/cliniccore/clinic-appointment-service/internal/di"
)

func main() {
	config.LoadEnv()
	menu := di.BuildConsoleApp(os.Stdin, os.Stdout)
	menu.Run()
}
