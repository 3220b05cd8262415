// Package sse writes server-sent event streams.
//
// A Client is a buffered, non-blocking mailbox for one connection; Serve
// drains it onto an http.ResponseWriter with keep-alive comments until the
// request ends or the client is closed.
//
//	client := sse.NewClient()
//	cancel := subscribe(func(v []byte) { client.Send(sse.Event{Data: v}) })
//	defer cancel()
//	sse.Serve(w, r, client)
package sse
