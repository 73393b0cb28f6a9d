// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"gitlab.com/starledger/stard/starutil"
	"gitlab.com/starledger/stard/version"
)

const (
	flagAPI       = "api"
	flagAddress   = "address"
	flagKey       = "key"
	flagMessage   = "message"
	flagSignature = "signature"
	flagStar      = "star"
	flagHeight    = "height"
	flagHash      = "hash"
)

func main() {
	app := &cli.App{
		Name:    "starctl",
		Usage:   "client tool for the stard star registry",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagAPI,
				Value: "http://127.0.0.1:8000",
				Usage: "base URL of the stard HTTP API",
			},
		},
		Commands: []*cli.Command{
			genKeyCmd(),
			requestValidationCmd(),
			signCmd(),
			submitStarCmd(),
			getBlockCmd(),
			starsCmd(),
			heightCmd(),
			validateCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func genKeyCmd() *cli.Command {
	return &cli.Command{
		Name:  "genkey",
		Usage: "generate a fresh key pair and its wallet address",
		Action: func(c *cli.Context) error {
			kd, err := starutil.GenerateKeyData()
			if err != nil {
				return err
			}
			fmt.Printf("private key: %s\naddress:     %s\n",
				kd.SerializePrivateKey(), kd.Address.EncodeAddress())
			return nil
		},
	}
}

func requestValidationCmd() *cli.Command {
	return &cli.Command{
		Name:  "request-validation",
		Usage: "request a challenge message for a wallet address",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagAddress, Required: true, Usage: "wallet address"},
		},
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))
			message, err := client.RequestValidation(c.String(flagAddress))
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}
}

func signCmd() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "sign a challenge message with a hex private key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagKey, Required: true, Usage: "hex encoded private key"},
			&cli.StringFlag{Name: flagMessage, Required: true, Usage: "challenge message"},
		},
		Action: func(c *cli.Context) error {
			kd, err := starutil.NewKeyData(c.String(flagKey))
			if err != nil {
				return err
			}
			signature, err := starutil.SignMessage(kd.PrivateKey, c.String(flagMessage))
			if err != nil {
				return err
			}
			fmt.Println(signature)
			return nil
		},
	}
}

func submitStarCmd() *cli.Command {
	return &cli.Command{
		Name:  "submit-star",
		Usage: "submit a signed star claim",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagAddress, Required: true, Usage: "wallet address"},
			&cli.StringFlag{Name: flagMessage, Required: true, Usage: "challenge message"},
			&cli.StringFlag{Name: flagSignature, Required: true, Usage: "base64 signature over the message"},
			&cli.StringFlag{Name: flagStar, Required: true, Usage: "star descriptor as JSON"},
		},
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))
			block, err := client.SubmitStar(
				c.String(flagAddress),
				c.String(flagMessage),
				c.String(flagSignature),
				c.String(flagStar),
			)
			if err != nil {
				return err
			}
			return printJSON(block)
		},
	}
}

func getBlockCmd() *cli.Command {
	return &cli.Command{
		Name:  "get-block",
		Usage: "fetch a block by height or hash",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: flagHeight, Value: -1, Usage: "block height"},
			&cli.StringFlag{Name: flagHash, Usage: "block hash"},
		},
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))

			var (
				block interface{}
				err   error
			)
			switch {
			case c.String(flagHash) != "":
				block, err = client.BlockByHash(c.String(flagHash))
			case c.Int64(flagHeight) >= 0:
				block, err = client.BlockByHeight(c.Int64(flagHeight))
			default:
				return cli.Exit("either --height or --hash is required", 1)
			}
			if err != nil {
				return err
			}
			return printJSON(block)
		},
	}
}

func starsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stars",
		Usage: "list the stars registered by a wallet address",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagAddress, Required: true, Usage: "wallet address"},
		},
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))
			stars, err := client.StarsByAddress(c.String(flagAddress))
			if err != nil {
				return err
			}
			return printJSON(stars)
		},
	}
}

func heightCmd() *cli.Command {
	return &cli.Command{
		Name:  "height",
		Usage: "print the current chain height",
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))
			height, err := client.ChainHeight()
			if err != nil {
				return err
			}
			fmt.Println(height)
			return nil
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "run the chain integrity validator",
		Action: func(c *cli.Context) error {
			client := newClient(c.String(flagAPI))
			report, err := client.ValidateChain()
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}
