package main

import (
	"os"

	"therapist-crm/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	// `therapist-crm migrate` applies pending migrations and exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := bootstrap.Migrate(); err != nil {
			logrus.Fatalf("Migration failed: %v", err)
		}
		return
	}

	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to start therapist CRM: %v", err)
	}

	app.Run()
}
