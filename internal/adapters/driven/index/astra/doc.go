// Package astra implements driven.IndexDialer and driven.IndexClient over
// the Astra DB Data API.
//
// Records live in a table with a vector column that the database embeds
// server side (vectorize), so the client only ever sends text. Every
// command is a JSON document POSTed to
//
//	{endpoint}/api/json/v1/{keyspace}[/{table}]
//
// with the application token in the Token header. Requests are throttled
// with a token bucket and HTTP 429 responses are retried after the
// server's Retry-After delay.
package astra
