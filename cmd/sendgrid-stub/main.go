// Package main runs a local fake of the SendGrid suppression API for
// developing and demoing the suppress CLI without touching production.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ignite/account-hygiene/internal/sendgrid"
	"github.com/ignite/account-hygiene/internal/stub"
)

func main() {
	addr := flag.String("addr", ":8825", "Listen address")
	seed := flag.Bool("seed", true, "Preload sample suppression entries")
	flag.Parse()

	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  WARNING: This is a STUB SendGrid API for local use ONLY. ║")
	log.Println("║  Data lives in memory and vanishes on restart.            ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")
	log.Println("")

	apiKey := os.Getenv("SENDGRID_STUB_KEY")
	if apiKey == "" {
		apiKey = "SG.stub-key"
	}

	server := stub.New(apiKey)
	if *seed {
		now := time.Now().Unix()
		server.Seed(sendgrid.ListBounces, stub.Entry{Email: "bounced@example.com", Reason: "550 5.1.1 user unknown", Created: now})
		server.Seed(sendgrid.ListBlocks, stub.Entry{Email: "blocked@example.com", Reason: "IP on deny list", Created: now})
		server.Seed(sendgrid.ListSpamReports, stub.Entry{Email: "complainer@example.com", Created: now})
		server.Seed(sendgrid.ListGlobal, stub.Entry{Email: "optout@example.com", Created: now})
		log.Println("Seeded sample entries in bounces, blocks, spam_reports, global")
	}

	log.Printf("Listening on %s (API key %q)", *addr, apiKey)
	log.Printf("Point the CLI at it: SENDGRID_BASE_URL=http://localhost%s", *addr)

	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
