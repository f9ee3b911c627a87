package models

import "time"

// Transaction is a charging session recorded by the OCPP protocol backend.
// Rows are immutable from this service's perspective. Stop fields stay nil
// while the session is running.
type Transaction struct {
	ID            int64      `db:"transaction_id" json:"transaction_id"`
	UID           *string    `db:"uid" json:"uid,omitempty"`
	ChargePointID string     `db:"charge_point_id" json:"charge_point_id"`
	ConnectorID   int        `db:"connector_id" json:"connector_id"`
	StartTagID    *string    `db:"start_tag_id" json:"start_tag_id,omitempty"`
	StartTime     time.Time  `db:"start_time" json:"start_time"`
	MeterStart    float64    `db:"meter_start" json:"meter_start"`
	StartResult   *string    `db:"start_result" json:"start_result,omitempty"`
	StopTagID     *string    `db:"stop_tag_id" json:"stop_tag_id,omitempty"`
	StopTime      *time.Time `db:"stop_time" json:"stop_time,omitempty"`
	MeterStop     *float64   `db:"meter_stop" json:"meter_stop,omitempty"`
	StopReason    *string    `db:"stop_reason" json:"stop_reason,omitempty"`
}

// Energy returns the metered energy of a completed session. Sessions without
// a stop meter, or with a stop meter below the start meter, report zero
// rather than failing aggregation.
func (t Transaction) Energy() float64 {
	if t.MeterStop == nil {
		return 0
	}
	delta := *t.MeterStop - t.MeterStart
	if delta < 0 {
		return 0
	}
	return delta
}

// TransactionExtended is a transaction enriched with the start/stop tag
// metadata resolved by a left join. Tag fields stay nil when the referenced
// tag no longer exists.
type TransactionExtended struct {
	Transaction

	StartTagName  *string `db:"start_tag_name" json:"start_tag_name,omitempty"`
	StartTagGroup *string `db:"start_tag_group" json:"start_tag_group,omitempty"`
	StopTagName   *string `db:"stop_tag_name" json:"stop_tag_name,omitempty"`
	StopTagGroup  *string `db:"stop_tag_group" json:"stop_tag_group,omitempty"`
}

// StartTagLabel returns the resolved start tag name, falling back to the raw
// tag id for unknown tags.
func (t TransactionExtended) StartTagLabel() string {
	if t.StartTagName != nil && *t.StartTagName != "" {
		return *t.StartTagName
	}
	if t.StartTagID != nil {
		return *t.StartTagID
	}
	return ""
}

// StopTagLabel returns the resolved stop tag name, falling back to the raw
// tag id for unknown tags.
func (t TransactionExtended) StopTagLabel() string {
	if t.StopTagName != nil && *t.StopTagName != "" {
		return *t.StopTagName
	}
	if t.StopTagID != nil {
		return *t.StopTagID
	}
	return ""
}

// GroupLabel returns the start tag's grouping label; ungrouped tags map to
// the empty label, which sorts before any named group.
func (t TransactionExtended) GroupLabel() string {
	if t.StartTagGroup != nil {
		return *t.StartTagGroup
	}
	return ""
}
