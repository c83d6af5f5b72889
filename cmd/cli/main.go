package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"segmentservice/cmd/pkg/cli"
)

func main() {
	method := flag.String("method", "GET", "HTTP method")
	endpoint := flag.String("endpoint", "/api/segments", "API endpoint")
	data := flag.String("data", "", "JSON payload")
	host := flag.String("host", "http://localhost:8080", "API host")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()
	client := cli.NewClient(*host, *timeout)
	if err := client.Request(context.Background(), *method, *endpoint, *data, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
