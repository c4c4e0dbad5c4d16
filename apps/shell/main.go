package main

import (
	"log"
	"os"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/nav"
	"github.com/edutrack/edutrack/core/session"
	authsvc "github.com/edutrack/edutrack/services/auth"
	logsvc "github.com/edutrack/edutrack/services/logger"
	localstore "github.com/edutrack/edutrack/storage/local"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "EDUTRACK : ", log.LstdFlags|log.Lmicroseconds)

	conf, err := core.NewConfig()
	errAndDie(err)

	var appLogger core.Logger
	if conf.RollbarToken != "" {
		appLogger = logsvc.NewRollbarLogger(logger, conf)
	} else {
		appLogger = logsvc.NewConsoleLogger(logger)
	}

	store, err := localstore.NewFileStore(conf.Storage.Dir)
	errAndDie(err)

	sessions := session.NewStore(authsvc.NewClient(conf), store, appLogger)
	defer sessions.Close()

	cli := commandLine{
		sessions: sessions,
		guard:    nav.NewGuard(sessions),
		menu:     nav.NewMenu(nav.DefaultCatalog()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
