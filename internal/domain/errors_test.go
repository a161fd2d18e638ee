package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hkondo/keibasim/internal/domain"
)

func TestDatasetError_UnwrapsToCode(t *testing.T) {
	err := &domain.DatasetError{Source: "races.tsv", Row: 5, Code: domain.ErrDatasetInvalidValue, Err: errors.New("bad odds")}
	assert.True(t, errors.Is(err, domain.ErrDatasetInvalidValue))
	assert.Contains(t, err.Error(), "races.tsv")
	assert.Contains(t, err.Error(), "row 5")
}

func TestConfigError_UnwrapsToCode(t *testing.T) {
	err := &domain.ConfigError{Field: "strategy.name", Code: domain.ErrConfigMissing, Err: errors.New("required")}
	assert.True(t, errors.Is(err, domain.ErrConfigMissing))
	assert.Contains(t, err.Error(), "strategy.name")
}

func TestStrategyError_UnwrapsToCode(t *testing.T) {
	err := &domain.StrategyError{Name: "bogus", Code: domain.ErrStrategyUnknown, Err: errors.New("not registered")}
	assert.True(t, errors.Is(err, domain.ErrStrategyUnknown))
}

func TestBankrollError_UnwrapsToCode(t *testing.T) {
	err := &domain.BankrollError{Method: "bogus", Code: domain.ErrBankrollUnknown, Err: errors.New("not registered")}
	assert.True(t, errors.Is(err, domain.ErrBankrollUnknown))
}

func TestSimulationError_UnwrapsToCode(t *testing.T) {
	err := &domain.SimulationError{RaceID: "tokyo-2024-0501-01", Code: domain.ErrResultUnavailable, Err: errors.New("no result")}
	assert.True(t, errors.Is(err, domain.ErrResultUnavailable))
}
