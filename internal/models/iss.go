package models

// SunExposure is one window in GET /iss/sun.
// End is a string for closed windows and a JSON number (epoch seconds) for an open one.
type SunExposure struct {
	Start string `json:"start"`
	End   any    `json:"end"`
}

// SunExposuresResponse is returned by GET /iss/sun.
type SunExposuresResponse struct {
	SunExposures []SunExposure `json:"sun_exposures"`
}

// PositionResponse is returned by GET /iss/position when data exists.
type PositionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
