package renderer

import (
	"image"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// shadowFactor dims a bounce's contribution when any light is occluded
const shadowFactor float32 = 0.5

// Raytracer traces individual pixels of a scene. It holds no per-pixel state
// and is safe for concurrent use.
type Raytracer struct {
	objects []geometry.Object
	lights  []int // indices into objects
	config  Config
}

// NewRaytracer creates a new raytracer. The first MaxLights light objects
// become light sources; further lights are still visible but do not shade.
func NewRaytracer(objects []geometry.Object, config Config) *Raytracer {
	var lights []int
	for i, obj := range objects {
		if obj.Light && len(lights) < MaxLights {
			lights = append(lights, i)
		}
	}

	return &Raytracer{
		objects: objects,
		lights:  lights,
		config:  config,
	}
}

// NumLights returns the number of active light sources
func (rt *Raytracer) NumLights() int {
	return len(rt.lights)
}

// PrimaryRay returns the camera ray through pixel (x, y). Row 0 is the top
// of the image and the camera always looks down +X.
func (rt *Raytracer) PrimaryRay(x, y int) core.Ray {
	xn := float32(x)/float32(rt.config.Width)*2 - 1
	yn := -(float32(y)/float32(rt.config.Height)*2 - 1)
	return core.NewRay(rt.config.CameraOrigin, core.NewVec3(1, xn, yn).Normalize())
}

// Inspect returns the index of the first object hit by the primary ray
// through (x, y) and its intersection, or -1 when the ray escapes
func (rt *Raytracer) Inspect(x, y int) (int, geometry.Intersection) {
	return rt.nearestHit(rt.PrimaryRay(x, y), -1)
}

// TracePixel returns the color of pixel (x, y) and whether its primary ray
// hit a surface. Pixels whose primary ray escapes get the background color.
func (rt *Raytracer) TracePixel(x, y int) (core.RGB, bool) {
	ray := rt.PrimaryRay(x, y)

	// No light can reach the camera, but the pixel may still cover geometry
	if rt.config.MaxBounces == 0 || len(rt.lights) == 0 {
		idx, _ := rt.nearestHit(ray, -1)
		return rt.config.Background, idx >= 0
	}

	var color core.RGB
	reflectivity := float32(1)
	last := -1
	anyHit := false

	for bounce := 0; bounce < int(rt.config.MaxBounces); bounce++ {
		idx, hit := rt.nearestHit(ray, last)
		if idx < 0 {
			break
		}
		anyHit = true
		last = idx
		obj := rt.objects[idx]

		// Lights end the path
		if obj.Light {
			color = color.Add(obj.Color)
			break
		}

		ray = core.NewRay(hit.Point, ray.Direction.Reflect(hit.Normal))

		lightColor, shadowed := rt.shade(idx, hit)
		shadow := float32(1)
		if shadowed {
			shadow = shadowFactor
		}

		color = color.Add(obj.Color.Scale(reflectivity).ScaleVec(lightColor)).Scale(shadow)
		reflectivity = obj.Reflectivity
	}

	if !anyHit {
		return rt.config.Background, false
	}
	return color, true
}

// nearestHit finds the closest object hit by ray, skipping the object hit on
// the previous bounce. It returns -1 when nothing is hit.
func (rt *Raytracer) nearestHit(ray core.Ray, last int) (int, geometry.Intersection) {
	best := -1
	closest := geometry.NoHit()
	closestT := geometry.MaxDistance

	for i := range rt.objects {
		if rt.excluded(i, last) {
			continue
		}
		hit := rt.objects[i].Intersect(ray)
		if !hit.Hit() || hit.Distance <= 0 || hit.Distance >= closestT {
			continue
		}
		best = i
		closest = hit
		closestT = hit.Distance
	}

	return best, closest
}

// excluded reports whether object i must be ignored because it is the
// object the ray is leaving
func (rt *Raytracer) excluded(i, last int) bool {
	if last < 0 {
		return false
	}
	if rt.config.PositionEquality {
		return rt.objects[i].Equal(rt.objects[last])
	}
	return i == last
}

// shade combines the light sources into a multiplicative light color and
// reports whether any of them is blocked from the hit point
func (rt *Raytracer) shade(idx int, hit geometry.Intersection) (core.Vec3, bool) {
	lightColor := core.NewVec3(1, 1, 1)
	shadowed := false

	for _, li := range rt.lights {
		light := rt.objects[li]
		lightPos := light.LightAnchor()

		facing := hit.Normal.Dot(hit.Point.Subtract(lightPos).Normalize())
		lightColor = lightColor.
			Multiply(1 - (facing+1)/2).
			MultiplyVec(light.Color.Normalized())

		if rt.occluded(idx, hit.Point, lightPos) {
			shadowed = true
		}
	}

	return lightColor, shadowed
}

// occluded reports whether a non-light object other than the one at idx
// lies between from and lightPos
func (rt *Raytracer) occluded(idx int, from, lightPos core.Vec3) bool {
	toLight := lightPos.Subtract(from)
	dist := toLight.Length()
	ray := core.NewRay(from, toLight.Normalize())

	for i, obj := range rt.objects {
		if obj.Light || rt.excluded(i, idx) {
			continue
		}
		if hit := obj.Intersect(ray); hit.Hit() && hit.Distance < dist {
			return true
		}
	}
	return false
}

// RenderBounds renders the pixels within bounds into img. Callers rendering
// disjoint bounds may share img across goroutines.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) RenderStats {
	stats := RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, hit := rt.TracePixel(x, y)
			img.SetRGBA(x, y, color.RGBA())
			stats.recordPixel(hit)
		}
	}

	return stats
}

// RenderSerial renders the whole image on the calling goroutine
func RenderSerial(objects []geometry.Object, config Config) *image.RGBA {
	img := newImage(config)
	NewRaytracer(objects, config).RenderBounds(img.Bounds(), img)
	return img
}

// newImage allocates the output raster: Width columns by Height rows
func newImage(config Config) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, max(config.Width, 0), max(config.Height, 0)))
}
