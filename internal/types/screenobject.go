package types

type ScreenObject struct {
	ID       int     `json:"id"`
	Position Vector2 `json:"position"`
}

func (s *ScreenObject) DistanceToPoint(point Vector2) float64 {
	return s.Position.DistanceTo(point)
}
