package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Sends a fake Stitch payment webhook at a local dev server so the
// pending -> new transition can be exercised without a real payment.

type webhookPayload struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Metadata  struct {
		OrderNumbers string `json:"order_numbers"`
	} `json:"metadata"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/stitch", "Webhook URL")
	paymentID := flag.String("payment-id", "pay_"+uuid.NewString()[:8], "Payment id")
	status := flag.String("status", "payment.completed", "Payment status (success, paid, completed, payment.completed, failed, ...)")
	orders := flag.String("orders", "", "Comma-separated order numbers (required)")
	dryRun := flag.Bool("dry-run", false, "Only print the payload, don't send")

	flag.Parse()

	if strings.TrimSpace(*orders) == "" {
		fmt.Fprintln(os.Stderr, "Error: -orders is required (e.g. -orders PW-20260314-a1b2c3d4)")
		os.Exit(1)
	}

	payload := webhookPayload{
		PaymentID: *paymentID,
		Status:    *status,
	}
	payload.Metadata.OrderNumbers = *orders

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	resp, err := http.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
