// Package apiconnect wires the splitledger.v1 services to Connect handlers and clients.
package apiconnect
