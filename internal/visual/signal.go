package visual

// HandGesture is the discrete right-hand gesture class.
type HandGesture uint8

const (
	GestureNone HandGesture = iota
	GestureTouch
	GestureRain
)

func (g HandGesture) String() string {
	switch g {
	case GestureTouch:
		return "TOUCH"
	case GestureRain:
		return "RAIN"
	}
	return "NONE"
}

// LeftHand drives grip (implode) and open (blast).
type LeftHand struct {
	Active   bool
	IsFist   bool
	Strength float64 // [0,1]
}

// RightHand drives touch ripples and rain.
type RightHand struct {
	Active  bool
	X, Y    float64 // [-1,1], y up
	Gesture HandGesture
}

// GestureState is one snapshot from the hand tracker. The zero value is the
// neutral state: no hands.
type GestureState struct {
	Left  LeftHand
	Right RightHand
}

// AudioFrame is one snapshot of the analyser.
type AudioFrame struct {
	Magnitudes []byte
	Loudness   float64 // mean magnitude / 255
}
