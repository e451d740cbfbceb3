// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package services

import (
	"context"
)

// Server is anything with a suture-compatible Serve method.
type Server interface {
	Serve(ctx context.Context) error
}

// Service gives a Server a name for supervisor logging.
//
// Example usage:
//
//	tree.AddMessagingService(services.Named("websocket-hub", hub))
type Service struct {
	name   string
	server Server
}

// Named wraps server as a supervised service called name.
func Named(name string, server Server) *Service {
	return &Service{name: name, server: server}
}

// Serve implements suture.Service by delegating to the wrapped server.
func (s *Service) Serve(ctx context.Context) error {
	return s.server.Serve(ctx)
}

// String implements fmt.Stringer for logging.
func (s *Service) String() string {
	return s.name
}
