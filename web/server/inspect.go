package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool       `json:"hit"`
	ObjectIndex  int        `json:"objectIndex"`
	GeometryType string     `json:"geometryType,omitempty"`
	Point        [3]float32 `json:"point"`
	Normal       [3]float32 `json:"normal"`
	Distance     float32    `json:"distance"`
	Color        string     `json:"color,omitempty"` // #rrggbb
	Reflectivity float32    `json:"reflectivity"`
	Light        bool       `json:"light"`
	Position     [3]float32 `json:"position"` // Anchor point of the object
}

func toArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// handleInspect reports the first object seen through a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req, err := s.parseRenderRequest(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	var x, y int
	if x, err = parseIntParam(values, "x", 0, 0, req.Width-1); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if y, err = parseIntParam(values, "y", 0, 0, req.Height-1); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sc, rc, err := s.prepareRender(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(renderer.NewRaytracer(sc.Objects, rc), x, y))
}

// inspectPixel casts the primary ray through (x, y) and describes the first object hit
func inspectPixel(rt *renderer.Raytracer, x, y int) InspectResponse {
	idx, hit := rt.Inspect(x, y)
	if idx < 0 {
		return InspectResponse{ObjectIndex: -1}
	}

	obj := hit.Object
	return InspectResponse{
		Hit:          true,
		ObjectIndex:  idx,
		GeometryType: obj.Kind().String(),
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Normal),
		Distance:     hit.Distance,
		Color:        fmt.Sprintf("#%02x%02x%02x", obj.Color.R, obj.Color.G, obj.Color.B),
		Reflectivity: obj.Reflectivity,
		Light:        obj.Light,
		Position:     toArray(obj.Position()),
	}
}
