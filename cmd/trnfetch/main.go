// Command trnfetch queries tracker.gg through the bot's cached client and
// prints the normalized result. It is meant for debugging Cloudflare tokens
// and response shapes without starting the bot.
package main

import (
	"os"
)

func main() {
	os.Exit(NewRunner(os.Stdout, os.Stderr).Run(os.Args[1:]))
}
