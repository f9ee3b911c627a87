package models

import "time"

// ConnectorStatus is the last known live state of a single connector,
// keyed by (charge point id, connector number). Rows are written by the
// OCPP protocol backend; this service only reads them.
type ConnectorStatus struct {
	ChargePointID   string     `db:"charge_point_id" json:"charge_point_id"`
	ConnectorID     int        `db:"connector_id" json:"connector_id"`
	ConnectorName   *string    `db:"connector_name" json:"connector_name,omitempty"`
	LastStatus      *string    `db:"last_status" json:"last_status,omitempty"`
	LastStatusTime  *time.Time `db:"last_status_time" json:"last_status_time,omitempty"`
	LastMeter       *float64   `db:"last_meter" json:"last_meter,omitempty"`
	LastMeterTime   *time.Time `db:"last_meter_time" json:"last_meter_time,omitempty"`
	ChargePointName *string    `db:"charge_point_name" json:"charge_point_name,omitempty"`
}
