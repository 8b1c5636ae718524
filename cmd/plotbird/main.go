package main

import (
	"os"

	"github.com/sirupsen/logrus"

	// Load plugins
	_ "github.com/plotbird/plotbird/plugins"

	// Load the core
	"github.com/plotbird/plotbird"
)

func failIfErr(err error, desc string) {
	if err != nil {
		logrus.WithError(err).Fatalln(desc)
	}
}

func main() {
	conf := os.Getenv("PLOTBIRD_CONFIG")
	if conf == "" {
		conf = "config.toml"
		_, err := os.Stat(conf)
		failIfErr(err, "Failed to load config")
	}

	confReader, err := os.Open(conf)
	failIfErr(err, "Failed to load config")

	// Create the bot
	b, err := plotbird.NewBot(confReader)
	confReader.Close()
	failIfErr(err, "Failed to create new bot")
	defer b.Close()

	// Run the bot
	err = b.ConnectAndRun()
	failIfErr(err, "Failed to run bot")
}
