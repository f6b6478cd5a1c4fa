package config

import (
	"context"
	"encoding/json"
	"errors"

	"ltc690x-go/bus"
	"ltc690x-go/types"
)

// -----------------------------------------------------------------------------
// String constants
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	keyHAL       = "hal"
)

type ctxKey string

// CtxDeviceKey is the context key carrying the device (board) ID.
const CtxDeviceKey ctxKey = "device"

var (
	ErrNoDevice  = errors.New("config: missing device ID in context")
	ErrNoConfig  = errors.New("config: no embedded config for device")
	ErrNotObject = errors.New("config: embedded config is not a JSON object")
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes
// each top-level key retained on config/<key>. The "hal" key is decoded into
// types.HALConfig; other keys are published as decoded JSON values.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return ErrNoDevice
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.Join(ErrNoConfig, errors.New(device))
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return errors.Join(ErrNotObject, err)
	}

	for k, v := range m {
		payload, err := decodeKey(k, v)
		if err != nil {
			println("[config] skipping key:", k, "err:", err.Error())
			continue
		}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), payload, true))
	}
	return nil
}

func decodeKey(k string, v json.RawMessage) (any, error) {
	if k == keyHAL {
		var cfg types.HALConfig
		if err := json.Unmarshal(v, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	var val any
	if err := json.Unmarshal(v, &val); err != nil {
		return nil, err
	}
	return val, nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
		}
	}()
}
