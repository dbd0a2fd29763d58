package api

// healthResponse is the body of GET /api/v1/health.
type healthResponse struct {
	Status     string `json:"status"`
	Telemetry  string `json:"telemetry"`
	Clients    int    `json:"clients"`
	LastSample string `json:"last_sample,omitempty"`
}

// readingsResponse is the body of GET /api/v1/readings.
type readingsResponse struct {
	FlowRate    float64 `json:"flowRate"`
	FSR         float64 `json:"fsr"`
	Temperature float64 `json:"temperature"`
	Status      string  `json:"status"`
	Fault       string  `json:"fault"`
	UpdatedAt   string  `json:"updated_at"`
}

// setDripRequest is the body of POST /api/v1/control/set-drip.
type setDripRequest struct {
	Rate float64 `json:"rate"`
}

// commandResponse acknowledges a control command.
type commandResponse struct {
	Status  string  `json:"status"`
	Command string  `json:"command"`
	Rate    float64 `json:"rate,omitempty"`
}

// dripUpdate is the payload broadcast on the "dripUpdated" event.
type dripUpdate struct {
	Rate float64 `json:"rate"`
}

// errorResponse is the uniform error body for every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}
