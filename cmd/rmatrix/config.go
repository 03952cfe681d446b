package main

import (
	"strings"

	"github.com/rmera/rmatrix"
	"github.com/rmera/rmatrix/deck"
	"github.com/spf13/viper"
)

//Configuration keys. The engine.* keys override the options in a deck only
//when they are set in the config file, the environment or a flag.
const (
	keyCpus          = "engine.cpus"
	keyUnitarityTol  = "engine.unitarity_tol"
	keyAdditivityTol = "engine.additivity_tol"
	keyMaxCond       = "engine.max_cond"
	keyDebug         = "engine.debug"
	keyOutDir        = "output.dir"
	keyCompression   = "output.compression"
	keyPlot          = "output.plot"
	keyPreview       = "output.preview"
)

func setDefaults() {
	viper.SetDefault(keyOutDir, ".")
	viper.SetDefault(keyCompression, "zst")
	viper.SetDefault(keyPlot, "")
	viper.SetDefault(keyPreview, true)
}

func initConfig() {
	setDefaults()
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rmatrix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.config/rmatrix")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	viper.SetEnvPrefix("RMATRIX")
	//RMATRIX_ENGINE_CPUS for engine.cpus
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = viper.ReadInConfig()
}

//engineOptions returns the options of the deck, overridden by whatever
//was set through viper.
func engineOptions(d *deck.Deck) *rmatrix.Options {
	o := d.Options.EngineOptions()
	if viper.IsSet(keyCpus) {
		o.Cpus(viper.GetInt(keyCpus))
	}
	if viper.IsSet(keyUnitarityTol) {
		o.UnitarityTol(viper.GetFloat64(keyUnitarityTol))
	}
	if viper.IsSet(keyAdditivityTol) {
		o.AdditivityTol(viper.GetFloat64(keyAdditivityTol))
	}
	if viper.IsSet(keyMaxCond) {
		o.MaxCond(viper.GetFloat64(keyMaxCond))
	}
	if viper.IsSet(keyDebug) {
		o.Debug(viper.GetBool(keyDebug))
	}
	return o
}

//tableSuffix returns the file suffix for the configured compression.
func tableSuffix() string {
	switch c := strings.TrimPrefix(strings.ToLower(viper.GetString(keyCompression)), "."); c {
	case "", "none", "plain":
		return ".dat"
	default:
		return ".dat." + c
	}
}
