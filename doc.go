/*
Package rdrscript is a scripted client for renderers speaking a
request/response protocol over a local socket or WebSocket.

A sample script declares how many windows it needs, the operations to run
once connected (create windows, load documents, mutate elements) and event
subscriptions that react to what the renderer reports. The client issues the
initial operations one at a time, streams large documents in chunks and
matches renderer events against the subscriptions.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/rdrscript"
		"github.com/aretw0/rdrscript/pkg/adapters/socket"
	)

	func main() {
		client, err := rdrscript.New("./samples")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		tr, err := socket.Dial(ctx, "/var/tmp/purcmc.sock")
		if err != nil {
			log.Fatal(err)
		}
		defer tr.Close()

		snap, err := client.Run(ctx, tr, "hello")
		if err != nil {
			log.Fatal(err)
		}
		log.Println("session ended:", snap.Status)
	}
*/
package rdrscript
