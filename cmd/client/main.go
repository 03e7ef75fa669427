package main

import (
	"os"

	"github.com/MKhiriev/go-photo-sync/internal/client"
	"github.com/MKhiriev/go-photo-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	app := client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
