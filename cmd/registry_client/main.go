// Command registry_client is a small CLI for the registry HTTP API.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/clearmark/ip-registry-backend/api/clients"
)

var serverAddrFlag = &cli.StringFlag{
	Name:  "server-addr",
	Value: "http://127.0.0.1:4000",
	Usage: "base URL of the registry server",
}

var idFlag = &cli.Int64Flag{
	Name:     "id",
	Required: true,
	Usage:    "record ID",
}

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Interact with the IP registry API",
		Flags: []cli.Flag{serverAddrFlag},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Upload and register a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true, Usage: "path of the file to register"},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "owner", Required: true, Usage: "owner identifier, typically a wallet address"},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(cCtx *cli.Context) error {
					content, err := os.ReadFile(cCtx.String("file"))
					if err != nil {
						return err
					}

					resp, err := newClient(cCtx).Register(
						cCtx.String("title"),
						cCtx.String("description"),
						cCtx.String("owner"),
						filepath.Base(cCtx.String("file")),
						content)
					if err != nil {
						return err
					}
					if resp.IsDuplicate {
						fmt.Fprintf(os.Stderr, "content already registered as record %d\n", resp.Record.ID)
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "search",
				Usage: "Search records by title, description, or content hash",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					resp, err := newClient(cCtx).Search(cCtx.String("query"))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "get",
				Usage: "Fetch one record",
				Flags: []cli.Flag{idFlag},
				Action: func(cCtx *cli.Context) error {
					resp, err := newClient(cCtx).Get(cCtx.Int64("id"))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "transfer",
				Usage: "Transfer record ownership",
				Flags: []cli.Flag{
					idFlag,
					&cli.StringFlag{Name: "new-owner", Required: true},
					&cli.StringFlag{Name: "note"},
				},
				Action: func(cCtx *cli.Context) error {
					resp, err := newClient(cCtx).Transfer(
						cCtx.Int64("id"),
						cCtx.String("new-owner"),
						cCtx.String("note"))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "license",
				Usage: "Append license terms to a record",
				Flags: []cli.Flag{
					idFlag,
					&cli.StringFlag{Name: "price", Required: true},
					&cli.StringFlag{Name: "duration-days", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					resp, err := newClient(cCtx).SetLicense(
						cCtx.Int64("id"),
						cCtx.String("price"),
						cCtx.String("duration-days"))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) *clients.RegistryClient {
	return &clients.RegistryClient{ServerAddr: cCtx.String(serverAddrFlag.Name)}
}

func printJSON(payload any) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
