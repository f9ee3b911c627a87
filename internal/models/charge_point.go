package models

// ChargePoint is a physical charging station addressed by its station id.
type ChargePoint struct {
	ChargePointID string  `db:"charge_point_id" json:"charge_point_id"`
	Name          *string `db:"name" json:"name,omitempty"`
	Comment       *string `db:"comment" json:"comment,omitempty"`
}

// DisplayName returns the station name when present, otherwise the id.
func (p ChargePoint) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.ChargePointID
}
