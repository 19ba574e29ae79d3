package character

import (
	"time"

	"github.com/ajanata/dongle/internal/media"
)

// Frame times. Idle is the slowest; the three typing states share the tap frames and speed up with the typing.
const (
	IdleFrameTime  = 250 * time.Millisecond
	SlowFrameTime  = 200 * time.Millisecond
	MidFrameTime   = 150 * time.Millisecond
	FastFrameTime  = 100 * time.Millisecond
	SmashFrameTime = 60 * time.Millisecond
)

var (
	idleFrames = []string{"cat_idle1", "cat_idle2", "cat_idle3", "cat_idle4"}
	tapFrames  = []string{"cat_right", "cat_left"}
	// smash lingers on the impact frames
	smashFrames = []string{
		"cat_smash2", "cat_smash2", "cat_smash2", "cat_smash2",
		"cat_smash3",
		"cat_smash4", "cat_smash4",
		"cat_smash1", "cat_smash1", "cat_smash1",
	}
)

// LoadSequences loads every state's frames from the embedded media.
func LoadSequences() (Sequences, error) {
	idle, err := media.LoadSequence(media.TypeCat, idleFrames...)
	if err != nil {
		return nil, err
	}
	tap, err := media.LoadSequence(media.TypeCat, tapFrames...)
	if err != nil {
		return nil, err
	}
	smash, err := media.LoadSequence(media.TypeCat, smashFrames...)
	if err != nil {
		return nil, err
	}

	return Sequences{
		StateIdle:  {Frames: idle, FrameTime: IdleFrameTime},
		StateSlow:  {Frames: tap, FrameTime: SlowFrameTime},
		StateMid:   {Frames: tap, FrameTime: MidFrameTime},
		StateFast:  {Frames: tap, FrameTime: FastFrameTime},
		StateSmash: {Frames: smash, FrameTime: SmashFrameTime},
	}, nil
}
