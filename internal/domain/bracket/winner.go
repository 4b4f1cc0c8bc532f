package bracket

// DetermineWinner compares two slot scores. A strictly higher score wins by
// team name, equal scores produce DrawMarker. A missing slot or score, or a
// winning slot whose team was not resolved, produces no winner.
func DetermineWinner(first, second *JoinedSlot) *string {
	if first == nil || second == nil || first.Score == nil || second.Score == nil {
		return nil
	}

	switch {
	case *first.Score > *second.Score:
		return slotName(first)
	case *second.Score > *first.Score:
		return slotName(second)
	default:
		draw := DrawMarker
		return &draw
	}
}

func slotName(slot *JoinedSlot) *string {
	if slot.Name == nil || *slot.Name == "" {
		return nil
	}
	name := *slot.Name
	return &name
}
