package gesture

import (
	"math"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// Landmark is one normalized hand keypoint. X and Y are in [0,1] image space
// with y growing downwards.
type Landmark struct {
	X, Y, Z float64
}

// Hand is one detected hand: 21 keypoints in the usual palm topology
// (0 wrist, 4 thumb tip, 8 index tip, 12 middle tip, 16 ring tip, 20 pinky tip)
// and the handedness label reported by the detector, "Left" or "Right".
type Hand struct {
	Handedness string
	Landmarks  [21]Landmark
}

const (
	wrist     = 0
	indexTip  = 8
	middleTip = 12

	fistDistance  = 0.25
	gripPivot     = 0.3
	gripGain      = 5
	spreadGain    = 2
	extendedRatio = 1.1
)

// finger tip/base pairs for index, middle, ring and pinky
var fingers = [4][2]int{{8, 5}, {12, 9}, {16, 13}, {20, 17}}

// Classify reduces detected hands to a GestureState. The left hand controls
// grip, the right hand touch or rain. Hands with any other label are ignored;
// if the same side appears twice the later one wins.
func Classify(hands []Hand) visual.GestureState {
	var st visual.GestureState
	for _, h := range hands {
		switch h.Handedness {
		case "Left":
			st.Left = classifyLeft(h.Landmarks)
		case "Right":
			st.Right = classifyRight(h.Landmarks)
		}
	}
	return st
}

func classifyLeft(lm [21]Landmark) visual.LeftHand {
	d := dist2D(lm[wrist], lm[middleTip])
	if d < fistDistance {
		return visual.LeftHand{
			Active:   true,
			IsFist:   true,
			Strength: math.Max(0, math.Min(1, (gripPivot-d)*gripGain)),
		}
	}
	return visual.LeftHand{
		Active:   true,
		Strength: math.Max(0, math.Min(1, (d-gripPivot)*spreadGain)),
	}
}

func classifyRight(lm [21]Landmark) visual.RightHand {
	tip := lm[indexTip]
	rh := visual.RightHand{
		Active:  true,
		X:       (tip.X - 0.5) * 2,
		Y:       -(tip.Y - 0.5) * 2,
		Gesture: visual.GestureRain,
	}
	for _, f := range fingers {
		if !extended(lm, f[0], f[1]) {
			rh.Gesture = visual.GestureTouch
			break
		}
	}
	return rh
}

func extended(lm [21]Landmark, tip, base int) bool {
	return dist2D(lm[tip], lm[wrist]) > dist2D(lm[base], lm[wrist])*extendedRatio
}

func dist2D(a, b Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
