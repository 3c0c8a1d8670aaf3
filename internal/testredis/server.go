// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testredis is a package for starting an in-process redis test
// server.
package testredis

import (
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

const fallbackAddr = "localhost:3780"

// Server is an in-process redis server for tests.
type Server struct {
	mini *miniredis.Miniredis
}

// Start starts an in-process redis server and registers its shutdown
// with the test cleanup.
func Start(t testing.TB) *Server {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mini.Close)

	return &Server{mini: mini}
}

// StartAt starts an in-process redis server listening on a specific
// address, usually one previously returned by FreeAddr.
func StartAt(t testing.TB, addr string) *Server {
	t.Helper()

	mini := miniredis.NewMiniRedis()
	if err := mini.StartAddr(addr); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mini.Close)

	return &Server{mini: mini}
}

// FreeAddr returns an address that is free to listen on.
func FreeAddr() string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fallbackAddr
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}

// Addr returns the address the server listens on.
func (server *Server) Addr() string { return server.mini.Addr() }

// HSet sets hash fields on the server, given as alternating field and
// value arguments.
func (server *Server) HSet(key string, fieldValues ...string) {
	server.mini.HSet(key, fieldValues...)
}

// Publish publishes a message and returns the number of receivers.
func (server *Server) Publish(channel, message string) int {
	return server.mini.Publish(channel, message)
}

// Close shuts the server down.
func (server *Server) Close() {
	server.mini.Close()
}
