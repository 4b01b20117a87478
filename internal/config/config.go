// Package config binds viper-managed settings to engine options. Every key
// can come from a config file, an IVYRECON_-prefixed environment variable,
// or a command-line flag, with flags winning.
package config

import (
	"github.com/spf13/viper"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/recon"
)

// Configuration keys.
const (
	KeyThreshold        = "threshold"
	KeyToleranceCents   = "tolerance-cents"
	KeyBlankIsZero      = "blank-is-zero"
	KeyDuplicates       = "duplicates"
	KeyFrequencyAware   = "frequency-aware"
	KeyFrequencySlack   = "frequency-slack-cents"
	KeySumRecheck       = "sum-recheck"
	KeyFrequencyRecheck = "frequency-recheck"
	KeyAliases          = "aliases"
	KeyGroup            = "group"
	KeyPeriod           = "period"
	KeyListenAddr       = "listen"
)

// SetDefaults registers engine defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyThreshold, recon.DefaultPlanMatchThreshold)
	v.SetDefault(KeyToleranceCents, recon.DefaultAmountToleranceCents)
	v.SetDefault(KeyBlankIsZero, false)
	v.SetDefault(KeyDuplicates, string(recon.DuplicateIgnoreExact))
	v.SetDefault(KeyFrequencyAware, false)
	v.SetDefault(KeyFrequencySlack, recon.DefaultFrequencySlackCents)
	v.SetDefault(KeySumRecheck, false)
	v.SetDefault(KeyFrequencyRecheck, false)
	v.SetDefault(KeyListenAddr, ":8080")
}

// EngineOptions translates the bound settings into engine options. The
// aliases key, when set, names a YAML alias file merged over the built-in
// defaults.
func EngineOptions(v *viper.Viper) ([]recon.Option, error) {
	opts := []recon.Option{
		recon.WithPlanMatchThreshold(v.GetFloat64(KeyThreshold)),
		recon.WithAmountTolerance(v.GetInt64(KeyToleranceCents)),
		recon.WithBlankIsZero(v.GetBool(KeyBlankIsZero)),
		recon.WithDuplicateHandling(recon.DuplicateHandling(v.GetString(KeyDuplicates))),
		recon.WithFrequencyAware(v.GetBool(KeyFrequencyAware)),
		recon.WithFrequencySlack(v.GetInt64(KeyFrequencySlack)),
		recon.WithSumRecheck(v.GetBool(KeySumRecheck)),
		recon.WithFrequencyRecheck(v.GetBool(KeyFrequencyRecheck)),
	}

	if path := v.GetString(KeyAliases); path != "" {
		t, err := aliases.LoadFile(path)
		if err != nil {
			return nil, errors.NewConfigError(KeyAliases, "load alias file", err)
		}
		opts = append(opts, recon.WithAliases(t))
	}
	return opts, nil
}
