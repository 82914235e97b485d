package layout

import (
	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/geometry"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Pipeline
// =============================================================================

const (
	// DefaultWidth is the default canvas width in user units.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in user units.
	DefaultHeight = 600.0

	// DefaultMargin is the default canvas margin.
	DefaultMargin = 20.0

	// DefaultMinNodeDistance is the minimum node-to-node distance layouts aim
	// to keep.
	DefaultMinNodeDistance = 50.0

	// DefaultNodeSpacing separates siblings along the secondary axis.
	DefaultNodeSpacing = 40.0

	// DefaultLevelSpacing separates hierarchy levels along the primary axis.
	DefaultLevelSpacing = 120.0

	// DefaultSeed is the default random seed for reproducible force layouts.
	DefaultSeed = uint64(42)
)

// Orientation controls which canvas axis a tree layout grows along, and in
// which direction.
type Orientation string

// Tree orientations.
const (
	OrientationTopDown   Orientation = "top-down"
	OrientationBottomUp  Orientation = "bottom-up"
	OrientationLeftRight Orientation = "left-right"
	OrientationRightLeft Orientation = "right-left"
)

// ValidOrientations is the set of supported tree orientations.
var ValidOrientations = map[Orientation]bool{
	OrientationTopDown:   true,
	OrientationBottomUp:  true,
	OrientationLeftRight: true,
	OrientationRightLeft: true,
}

// RadialConfig tunes the radial engine.
type RadialConfig struct {
	// BaseRadius is the radius of the first ring around the roots.
	BaseRadius float64 `json:"base_radius" toml:"base_radius"`
	// RadiusIncrement grows the ring radius per hierarchy level.
	RadiusIncrement float64 `json:"radius_increment" toml:"radius_increment"`
	// StartAngle offsets the first child of each root, in radians.
	StartAngle float64 `json:"start_angle" toml:"start_angle"`
	// MaxDepth caps how many rings are computed. Nodes deeper than MaxDepth
	// are clamped to the outermost ring. Zero means unlimited.
	MaxDepth int `json:"max_depth" toml:"max_depth"`
}

// TreeConfig tunes the tree engine.
type TreeConfig struct {
	Orientation Orientation `json:"orientation" toml:"orientation"`
	// HorizontalSpacing is the minimum sibling gap along the secondary axis.
	HorizontalSpacing float64 `json:"horizontal_spacing" toml:"horizontal_spacing"`
	// VerticalSpacing is the per-level step along the primary axis.
	VerticalSpacing float64 `json:"vertical_spacing" toml:"vertical_spacing"`
	// NodeWidth is the secondary-axis extent reserved for a leaf.
	NodeWidth float64 `json:"node_width" toml:"node_width"`
	// BalanceSubtrees centers a parent on the arithmetic mean of its
	// children's secondary coordinates instead of the leftmost child.
	BalanceSubtrees bool `json:"balance_subtrees" toml:"balance_subtrees"`
}

// ForceConfig tunes the force-directed engine.
type ForceConfig struct {
	RepulsionStrength    float64 `json:"repulsion_strength" toml:"repulsion_strength"`
	SpringStrength       float64 `json:"spring_strength" toml:"spring_strength"`
	SpringLength         float64 `json:"spring_length" toml:"spring_length"`
	CenterStrength       float64 `json:"center_strength" toml:"center_strength"`
	Damping              float64 `json:"damping" toml:"damping"`
	TimeStep             float64 `json:"time_step" toml:"time_step"`
	MaxIterations        int     `json:"max_iterations" toml:"max_iterations"`
	ConvergenceThreshold float64 `json:"convergence_threshold" toml:"convergence_threshold"`
	// AdaptiveTimestep shrinks the step when displacement grows large, for
	// numerical stability on stiff configurations.
	AdaptiveTimestep bool `json:"adaptive_timestep" toml:"adaptive_timestep"`
	// Seed makes the simulation reproducible: identical graph, parameters,
	// and seed produce positions equal within 1e-6.
	Seed uint64 `json:"seed" toml:"seed"`
}

// Config is the parameter bundle every engine consumes.
// The zero value is not usable - start from DefaultConfig.
type Config struct {
	Width  float64        `json:"width" toml:"width"`
	Height float64        `json:"height" toml:"height"`
	Center geometry.Point `json:"center" toml:"center"`
	Margin float64        `json:"margin" toml:"margin"`

	MinNodeDistance float64 `json:"min_node_distance" toml:"min_node_distance"`
	NodeSpacing     float64 `json:"node_spacing" toml:"node_spacing"`
	LevelSpacing    float64 `json:"level_spacing" toml:"level_spacing"`

	// PreservePositions keeps a node's stored position where the algorithm
	// allows it: the force engine starts from stored positions, and the
	// deterministic engines keep non-zero stored positions unchanged.
	PreservePositions bool `json:"preserve_positions" toml:"preserve_positions"`

	Radial RadialConfig `json:"radial" toml:"radial"`
	Tree   TreeConfig   `json:"tree" toml:"tree"`
	Force  ForceConfig  `json:"force" toml:"force"`
}

// DefaultConfig returns a configuration suitable for a mid-sized mindmap on a
// 800x600 canvas, centered.
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Center:          geometry.Point{X: DefaultWidth / 2, Y: DefaultHeight / 2},
		Margin:          DefaultMargin,
		MinNodeDistance: DefaultMinNodeDistance,
		NodeSpacing:     DefaultNodeSpacing,
		LevelSpacing:    DefaultLevelSpacing,
		Radial: RadialConfig{
			BaseRadius:      100,
			RadiusIncrement: 80,
		},
		Tree: TreeConfig{
			Orientation:       OrientationTopDown,
			HorizontalSpacing: DefaultNodeSpacing,
			VerticalSpacing:   DefaultLevelSpacing,
			NodeWidth:         80,
		},
		Force: ForceConfig{
			RepulsionStrength:    6000,
			SpringStrength:       0.06,
			SpringLength:         100,
			CenterStrength:       0.02,
			Damping:              0.85,
			TimeStep:             1.0,
			MaxIterations:        500,
			ConvergenceThreshold: 0.01,
			AdaptiveTimestep:     true,
			Seed:                 DefaultSeed,
		},
	}
}

// Validate checks the configuration before any computation begins.
// Rejected inputs report INVALID_OPERATION: non-positive canvas dimensions,
// negative spacing or margin, out-of-range damping, or an unknown tree
// orientation.
func (c *Config) Validate() error {
	if err := errors.ValidateCanvas(c.Width, c.Height); err != nil {
		return err
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"margin", c.Margin},
		{"min node distance", c.MinNodeDistance},
		{"node spacing", c.NodeSpacing},
		{"level spacing", c.LevelSpacing},
		{"radial base radius", c.Radial.BaseRadius},
		{"radial radius increment", c.Radial.RadiusIncrement},
		{"tree horizontal spacing", c.Tree.HorizontalSpacing},
		{"tree vertical spacing", c.Tree.VerticalSpacing},
		{"tree node width", c.Tree.NodeWidth},
	} {
		if err := errors.ValidateSpacing(v.name, v.value); err != nil {
			return err
		}
	}
	if c.Tree.Orientation != "" && !ValidOrientations[c.Tree.Orientation] {
		return errors.New(errors.ErrCodeInvalidOperation, "unknown tree orientation %q", c.Tree.Orientation)
	}
	if c.Force.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidOperation, "max iterations must not be negative")
	}
	if c.Force.Damping != 0 {
		if err := errors.ValidateFraction("damping", c.Force.Damping); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills zero-valued fields from DefaultConfig. This method is
// idempotent; flags and config files can partially populate a Config and let
// the rest default.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
	if c.Center.IsZero() {
		c.Center = geometry.Point{X: c.Width / 2, Y: c.Height / 2}
	}
	if c.Margin == 0 {
		c.Margin = def.Margin
	}
	if c.MinNodeDistance == 0 {
		c.MinNodeDistance = def.MinNodeDistance
	}
	if c.NodeSpacing == 0 {
		c.NodeSpacing = def.NodeSpacing
	}
	if c.LevelSpacing == 0 {
		c.LevelSpacing = def.LevelSpacing
	}
	if c.Radial.BaseRadius == 0 {
		c.Radial.BaseRadius = def.Radial.BaseRadius
	}
	if c.Radial.RadiusIncrement == 0 {
		c.Radial.RadiusIncrement = def.Radial.RadiusIncrement
	}
	if c.Tree.Orientation == "" {
		c.Tree.Orientation = def.Tree.Orientation
	}
	if c.Tree.HorizontalSpacing == 0 {
		c.Tree.HorizontalSpacing = def.Tree.HorizontalSpacing
	}
	if c.Tree.VerticalSpacing == 0 {
		c.Tree.VerticalSpacing = def.Tree.VerticalSpacing
	}
	if c.Tree.NodeWidth == 0 {
		c.Tree.NodeWidth = def.Tree.NodeWidth
	}
	if c.Force.RepulsionStrength == 0 {
		c.Force.RepulsionStrength = def.Force.RepulsionStrength
	}
	if c.Force.SpringStrength == 0 {
		c.Force.SpringStrength = def.Force.SpringStrength
	}
	if c.Force.SpringLength == 0 {
		c.Force.SpringLength = def.Force.SpringLength
	}
	if c.Force.CenterStrength == 0 {
		c.Force.CenterStrength = def.Force.CenterStrength
	}
	if c.Force.Damping == 0 {
		c.Force.Damping = def.Force.Damping
	}
	if c.Force.TimeStep == 0 {
		c.Force.TimeStep = def.Force.TimeStep
	}
	if c.Force.MaxIterations == 0 {
		c.Force.MaxIterations = def.Force.MaxIterations
	}
	if c.Force.ConvergenceThreshold == 0 {
		c.Force.ConvergenceThreshold = def.Force.ConvergenceThreshold
	}
	if c.Force.Seed == 0 {
		c.Force.Seed = def.Force.Seed
	}
}
