package client

import (
	"context"

	"github.com/pkg/errors"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/keymanager"
)

// Config for the validator service.
type Config struct {
	Chain              ChainClient
	StateNotifier      statefeed.Notifier
	KeyManager         keymanager.Keymanager
	ValDB              iface.ValidatorDB
	Graffiti           []byte
	EmitAccountMetrics bool
}

// Service represents a service to manage the validator client
// routine.
type Service struct {
	ctx       context.Context
	cancel    context.CancelFunc
	validator Validator
}

// NewService creates a new validator service for the service
// registry.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg.Chain == nil {
		return nil, errors.New("chain client is required")
	}
	if cfg.KeyManager == nil {
		return nil, errors.New("keymanager is required")
	}
	if cfg.ValDB == nil {
		return nil, errors.New("validator database is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	v := &validator{
		chain:                          cfg.Chain,
		stateNotifier:                  cfg.StateNotifier,
		keyManager:                     cfg.KeyManager,
		db:                             cfg.ValDB,
		graffiti:                       cfg.Graffiti,
		emitAccountMetrics:             cfg.EmitAccountMetrics,
		attLogs:                        make(map[[32]byte]*attSubmitted),
		aggregatedSlotCommitteeIDCache: make(map[string]bool),
	}
	return &Service{
		ctx:       ctx,
		cancel:    cancel,
		validator: v,
	}, nil
}

// Start the validator service. Launches the main go routine for the validator client.
func (s *Service) Start() {
	go run(s.ctx, s.validator)
}

// Stop the validator service.
func (s *Service) Stop() error {
	s.cancel()
	log.Info("Stopping service")
	return nil
}

// Status of the validator service.
func (s *Service) Status() error {
	if s.ctx.Err() != nil {
		return errors.New("validator service is shut down")
	}
	return nil
}
