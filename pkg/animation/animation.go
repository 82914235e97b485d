// Package animation interpolates between two computed layouts.
//
// Given a start and an end position map, [Interpolate] produces an ordered,
// finite sequence of frames. Frame i's progress is i/(frameCount-1), run
// through an easing function, and each node travels the straight line between
// its start and end position. The sequence is recomputed per call and is not
// restartable.
package animation

import (
	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Easing names a progress-shaping function.
type Easing string

// Supported easings.
const (
	EasingLinear    Easing = "linear"
	EasingEaseInOut Easing = "ease-in-out"
	EasingEaseOut   Easing = "ease-out"
)

// ValidEasings is the set of supported easing names.
var ValidEasings = map[Easing]bool{
	EasingLinear:    true,
	EasingEaseInOut: true,
	EasingEaseOut:   true,
}

// Frame is one step of an animation: the eased progress in [0,1] and the
// interpolated position of every node.
type Frame struct {
	Progress  float64                           `json:"progress"`
	Positions map[mindmap.NodeID]geometry.Point `json:"positions"`
}

// ease applies the named easing to a linear progress t in [0,1].
func ease(e Easing, t float64) float64 {
	switch e {
	case EasingEaseOut:
		return 1 - (1-t)*(1-t)
	case EasingEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - 2*(1-t)*(1-t)
	default:
		return t
	}
}

// Interpolate produces frameCount frames moving every node from its position
// in start to its position in end. Nodes present in only one of the two maps
// hold the position they have; the first frame reproduces start and the last
// reproduces end exactly.
//
// frameCount must be at least 2 and the easing must be a known one; anything
// else reports INVALID_OPERATION.
func Interpolate(start, end map[mindmap.NodeID]geometry.Point, frameCount int, easing Easing) ([]Frame, error) {
	if frameCount < 2 {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "frame count must be at least 2, got %d", frameCount)
	}
	if easing == "" {
		easing = EasingLinear
	}
	if !ValidEasings[easing] {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "unknown easing %q (must be one of: linear, ease-in-out, ease-out)", easing)
	}

	// Union of node ids, so one-sided nodes still appear in every frame.
	ids := make(map[mindmap.NodeID]bool, len(start)+len(end))
	for id := range start {
		ids[id] = true
	}
	for id := range end {
		ids[id] = true
	}

	frames := make([]Frame, frameCount)
	for i := range frames {
		t := ease(easing, float64(i)/float64(frameCount-1))
		positions := make(map[mindmap.NodeID]geometry.Point, len(ids))
		for id := range ids {
			from, hasFrom := start[id]
			to, hasTo := end[id]
			switch {
			case !hasFrom:
				positions[id] = to
			case !hasTo:
				positions[id] = from
			default:
				positions[id] = geometry.Lerp(from, to, t)
			}
		}
		frames[i] = Frame{Progress: t, Positions: positions}
	}
	return frames, nil
}
