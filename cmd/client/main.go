package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/lifecheck/survey/internal/client/api"
	"github.com/lifecheck/survey/internal/client/cli"
	"github.com/lifecheck/survey/internal/client/session"
)

func main() {
	server := pflag.String("server", "http://localhost:8080", "survey backend base URL")
	sessionFile := pflag.String("session-file", "", "session file path (default ~/.lifecheck/session.json)")
	pflag.Parse()

	path := *sessionFile
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			log.Fatalf("resolve session path: %v", err)
		}
	}

	app := cli.NewApp(api.New(*server), session.NewStore(path), os.Stdin, os.Stdout)
	app.Restore()

	fmt.Println("Survey client. Type help for commands.")
	app.Run(context.Background())
}
