// Command frostctl runs trusted-dealer FROST ceremonies from the command
// line: it deals keys, derives key packages, signs in-process and
// verifies signatures.
package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log"
	"gopkg.in/urfave/cli.v1"
)

var log = logging.Logger("frostctl")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "frostctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "frostctl"
	app.Usage = "threshold Schnorr signatures with a trusted dealer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := "error"
		if c.Bool("debug") {
			level = "debug"
		}
		for _, name := range []string{"frostctl", "session", "frost"} {
			if err := logging.SetLogLevel(name, level); err != nil {
				return err
			}
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "dealer",
			Usage:     "split a new group key into secret shares",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config, c", Usage: "TOML `FILE` with min_signers, max_signers and ciphersuite"},
				cli.UintFlag{Name: "min-signers", Usage: "threshold"},
				cli.UintFlag{Name: "max-signers", Usage: "number of participants"},
				cli.StringFlag{Name: "ciphersuite", Usage: "ed25519 or bjj"},
				cli.StringFlag{Name: "out, o", Usage: "write the key file to `FILE` instead of stdout"},
			},
			Action: dealer,
		},
		{
			Name:  "keypackage",
			Usage: "verify one participant's share and print its key package",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "keys, k", Usage: "key `FILE` written by dealer"},
				cli.UintFlag{Name: "index, i", Usage: "participant number, from 1"},
			},
			Action: keyPackage,
		},
		{
			Name:  "sign",
			Usage: "run a signing ceremony in-process",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "keys, k", Usage: "key `FILE` written by dealer"},
				cli.StringFlag{Name: "signers, s", Usage: "comma separated participant numbers, e.g. 1,3"},
				cli.StringFlag{Name: "message, m", Usage: "message to sign"},
			},
			Action: sign,
		},
		{
			Name:  "verify",
			Usage: "verify a signature against the group key",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "keys, k", Usage: "key `FILE` written by dealer"},
				cli.StringFlag{Name: "message, m", Usage: "signed message"},
				cli.StringFlag{Name: "signature", Usage: "hex signature"},
			},
			Action: verify,
		},
	}
	return app
}
