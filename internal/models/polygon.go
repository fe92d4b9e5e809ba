package models

// PolygonRequest is the POST /2d-polygons payload.
type PolygonRequest struct {
	UUID  string `json:"uuid" binding:"required"`
	Color string `json:"color" binding:"required"`
	WKT   string `json:"wkt" binding:"required"`
}

// PolygonResponse is one stored polygon.
type PolygonResponse struct {
	UUID  string `json:"uuid"`
	Color string `json:"color"`
	WKT   string `json:"wkt"`
}

// PolygonListResponse is returned by GET /2d-polygons.
type PolygonListResponse struct {
	Polygons []PolygonResponse `json:"polygons"`
}
