// Command issue-token prints a bearer token for an account, signed with the
// server's JWT_SECRET. Useful for local development and scripted clients.
//
//	issue-token -account acct-123 -name Alice
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/pkg/logging"
)

func main() {
	account := flag.String("account", "", "account id to embed as the token subject")
	name := flag.String("name", "", "display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration).Generate(*account, *name)
	if err != nil {
		slog.Error("Failed to issue token", "account_id", *account, "error", err)
		os.Exit(1)
	}

	slog.Debug("Token issued", "account_id", *account, "expires_in", cfg.TokenDuration)
	fmt.Println(token)
}
