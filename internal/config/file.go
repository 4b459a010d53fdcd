package config

// File represents the structure of the .srcpgear configuration file.
// Every value is optional; nil means "not set in the file".
type File struct {
	// Search holds the enumeration settings.
	Search SearchFile `yaml:"search,omitempty"`

	// Gear holds the gear and module resolver settings.
	Gear GearFile `yaml:"gear,omitempty"`
}

// SearchFile is the `search:` section.
type SearchFile struct {
	Bounds      BoundsFile `yaml:"bounds,omitempty"`
	PlanetCount *int       `yaml:"planet_count,omitempty"`
	Workers     *int       `yaml:"workers,omitempty"`
	Tolerance   *float64   `yaml:"tolerance,omitempty"`

	// PlanetClearance set to false accepts layouts whose planets touch.
	PlanetClearance *bool `yaml:"planet_clearance,omitempty"`
}

// BoundsFile is the `search.bounds:` section.
type BoundsFile struct {
	MinSun    *int `yaml:"min_sun,omitempty"`
	MaxSun    *int `yaml:"max_sun,omitempty"`
	MinPlanet *int `yaml:"min_planet,omitempty"`
	MaxPlanet *int `yaml:"max_planet,omitempty"`
}

// GearFile is the `gear:` section.
type GearFile struct {
	Module             *float64 `yaml:"module,omitempty"`
	PressureAngle      *float64 `yaml:"pressure_angle,omitempty"`
	ProfileShift       *float64 `yaml:"profile_shift,omitempty"`
	AddendumCorrection *float64 `yaml:"addendum_correction,omitempty"`
	ODSlackPercent     *float64 `yaml:"od_slack_percent,omitempty"`
}

// Apply copies the file values into cfg. Values whose flag was set
// explicitly are skipped, so flags win over the file and the file wins
// over the defaults. explicit reports whether the named flag was set; a nil
// explicit treats every flag as unset.
func (f *File) Apply(cfg *Config, explicit func(flag string) bool) {
	if f == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	setInt := func(flag string, dst *int, src *int) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setFloat := func(flag string, dst *float64, src *float64) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}

	b := f.Search.Bounds
	setInt("min-sun", &cfg.Bounds.MinSun, b.MinSun)
	setInt("max-sun", &cfg.Bounds.MaxSun, b.MaxSun)
	setInt("min-planet", &cfg.Bounds.MinPlanet, b.MinPlanet)
	setInt("max-planet", &cfg.Bounds.MaxPlanet, b.MaxPlanet)
	setInt("planets", &cfg.PlanetCount, f.Search.PlanetCount)
	if f.Search.PlanetClearance != nil && !explicit("skip-clearance") {
		cfg.SkipPlanetClearance = !*f.Search.PlanetClearance
	}
	setInt("workers", &cfg.Workers, f.Search.Workers)
	setFloat("tolerance", &cfg.TolerancePercent, f.Search.Tolerance)

	// A target OD on the command line replaces any module, including the
	// file's.
	if !explicit("od") {
		setFloat("module", &cfg.Module, f.Gear.Module)
	}
	setFloat("pressure-angle", &cfg.PressureAngle, f.Gear.PressureAngle)
	setFloat("profile-shift", &cfg.ProfileShift, f.Gear.ProfileShift)
	setFloat("addendum-correction", &cfg.AddendumCorrection, f.Gear.AddendumCorrection)
	setFloat("od-slack", &cfg.ODSlackPercent, f.Gear.ODSlackPercent)
}
