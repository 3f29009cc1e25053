package model

import (
	"time"
)

// Phase is the lifecycle phase of the backend.
type Phase string

const (
	PhaseStopped  Phase = "Stopped"
	PhaseStarting Phase = "Starting"
	PhaseRunning  Phase = "Running"
	PhaseStopping Phase = "Stopping"
)

// BackendStatus is a point in time snapshot of the backend.
type BackendStatus struct {
	Phase      Phase     `json:"phase" xml:"Phase"`
	Connected  bool      `json:"connected" xml:"Connected"`
	Generation uint64    `json:"generation" xml:"Generation"`
	Address    string    `json:"address,omitempty" xml:"Address,omitempty"`
	Namespace  string    `json:"namespace,omitempty" xml:"Namespace,omitempty"`
	Transport  string    `json:"transport,omitempty" xml:"Transport,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitzero" xml:"StartedAt"`
	// LastError is the most recent failure since the last successful start.
	LastError  string    `json:"lastError,omitempty" xml:"LastError,omitempty"`
	Delivered  uint64    `json:"delivered" xml:"Delivered"`
	Failed     uint64    `json:"failed" xml:"Failed"`
}
