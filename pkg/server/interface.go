/*
Package server exposes the generator over msgpack IPC and HTTP.

# IPC

Clients write msgpack maps to stdin and read msgpack maps from stdout. The
server first announces itself:

	{"status": "ready"}

A generation request names the verse to answer and optionally the mode:

	{"id": "req_001", "v": "俺の野球", "m": "rhyme"}

The reply carries the generated text and the time taken in milliseconds:

	{"id": "req_001", "t": "打席に立つ俺\n逆転サヨナラホームラン", "ms": 42}

Failures are reported with a status code instead:

	{"id": "req_001", "e": "missing verse", "c": 400}

Requests without an id get a generated one. Messages are processed in order;
end of input stops the server.

# HTTP

	GET  /        health text
	POST /rap     form field or JSON key "verse", optional "mode"; plain text reply
	GET  /schema  JSON schema of the JSON request body
*/
package server

import "context"

// Generator produces text for a verse.
type Generator interface {
	Generate(ctx context.Context, mode, prompt string) (string, error)
}

// RapRequest - IPC generation request
type RapRequest struct {
	ID    string `msgpack:"id"`
	Verse string `msgpack:"v"`
	Mode  string `msgpack:"m,omitempty"`
}

// RapResponse - IPC generation response
type RapResponse struct {
	ID        string `msgpack:"id"`
	Text      string `msgpack:"t"`
	TimeTaken int64  `msgpack:"ms"`
}

// RapError holds basic error information for generation requests
type RapError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// HTTPRequest is the JSON body accepted by POST /rap.
type HTTPRequest struct {
	Verse string `json:"verse" jsonschema:"required,description=Verse to answer"`
	Mode  string `json:"mode,omitempty" jsonschema:"enum=forward,enum=reverse,enum=rhyme,description=Generation mode"`
}

// Options shared by both transports.
type Options struct {
	// Mode used when a request does not name one.
	Mode string
	// MaxVerse is the longest accepted verse in runes; 0 disables the check.
	MaxVerse int
}
