// Package api defines the sharify.v1 RPC messages.
//
// Messages are plain Go structs encoded as JSON on the wire. The field names
// follow protojson conventions (lowerCamelCase) so any Connect client that
// speaks application/json can call the services.
package api
