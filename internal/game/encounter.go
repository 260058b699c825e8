package game

import "github.com/fortyfive/game/internal/data"

// EncounterModifier alters the rules of one encounter.
type EncounterModifier string

const (
	// ModReverse swaps the rotation direction of every shot.
	ModReverse EncounterModifier = "reverse"
	// ModDouble turns the revolver twice as far.
	ModDouble EncounterModifier = "double"
	// ModJam keeps the revolver from turning on every third shot.
	ModJam EncounterModifier = "jam"
)

// modifyRotation applies every active modifier to r. shot is the revolver
// rotation counter after the shot was counted.
func modifyRotation(mods []EncounterModifier, r Rotation, shot int) Rotation {
	for _, m := range mods {
		switch m {
		case ModReverse:
			switch r.Direction {
			case data.RotateRight:
				r.Direction = data.RotateLeft
			case data.RotateLeft:
				r.Direction = data.RotateRight
			}
		case ModDouble:
			r.Amount *= 2
		case ModJam:
			if shot%3 == 0 {
				r = NoRotation
			}
		}
	}
	return r
}
