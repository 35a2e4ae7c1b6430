package config

// Presets name the standard scenarios: the
// modern climate, the dim early sun, and runs that bracket the
// Snowball transition.
var Presets = map[string]*Config{
	"present-day": {
		InitialTemp:     288,
		SolarMultiplier: 1.0,
	},
	"faint-young-sun": {
		// ~30% dimmer early sun; falls into a Snowball state.
		InitialTemp:     288,
		SolarMultiplier: 0.7,
	},
	"near-threshold": {
		// Just above the Snowball onset for the reference planet.
		InitialTemp:     288,
		SolarMultiplier: 0.92,
	},
	"frozen-start": {
		// Cold seed at present-day input: the frozen stable branch.
		InitialTemp:     230,
		SolarMultiplier: 1.0,
	},
	"bright-sun": {
		InitialTemp:     288,
		SolarMultiplier: 1.05,
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.InitialTemp = base.InitialTemp
	cfg.SolarMultiplier = base.SolarMultiplier
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
