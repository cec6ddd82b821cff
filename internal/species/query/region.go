package query

import "math"

const (
	RegionNoLocation = "No location"
	RegionOutside    = "Outside known regions"
)

// Region is an axis-aligned bounding box. Bounds are inclusive.
type Region struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (r Region) contains(lat, lng float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lng >= r.MinLng && lng <= r.MaxLng
}

// Regions in priority order. The island box is tested before the mainland
// boxes, and shared edges go to the earlier box.
var Regions = []Region{
	{Name: "Galápagos", MinLat: -1.5, MaxLat: 0.5, MinLng: -92, MaxLng: -89},
	{Name: "Costa", MinLat: -2.5, MaxLat: 1.5, MinLng: -81, MaxLng: -79},
	{Name: "Sierra", MinLat: -2.5, MaxLat: 1.5, MinLng: -79, MaxLng: -77},
	{Name: "Amazonía", MinLat: -5, MaxLat: 1.5, MinLng: -77, MaxLng: -75},
}

// RegionNames lists every label Classify can return.
func RegionNames() []string {
	names := make([]string, 0, len(Regions)+2)
	for _, r := range Regions {
		names = append(names, r.Name)
	}
	return append(names, RegionOutside, RegionNoLocation)
}

// Classify maps any coordinate pair to exactly one label.
func Classify(lat, lng float64) string {
	if lat == 0 && lng == 0 {
		return RegionNoLocation
	}
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return RegionOutside
	}
	for _, r := range Regions {
		if r.contains(lat, lng) {
			return r.Name
		}
	}
	return RegionOutside
}
