//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"hiprompt/internal/config"
)

// InitializeApp wires the client for cfg.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
