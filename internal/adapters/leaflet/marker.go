// Package leaflet mirrors the small part of the Leaflet map API the front end uses
// (marker, addTo, bindPopup, openPopup) so markers can be built server side and shipped
// to the browser as GeoJSON.
package leaflet

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"restaurant_reviews/internal/domain"
)

type Map struct {
	mu      sync.Mutex
	markers []*Marker
}

func NewMap() *Map { return &Map{} }

// Markers returns the markers in placement order.
func (m *Map) Markers() []*Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Marker(nil), m.markers...)
}

type Marker struct {
	LatLng    domain.LatLng
	Popup     string
	PopupOpen bool

	m *Map
}

func NewMarker(at domain.LatLng) *Marker { return &Marker{LatLng: at} }

// AddTo places the marker on m. Adding it again is a no-op.
func (mk *Marker) AddTo(m *Map) *Marker {
	if mk.m == m {
		return mk
	}
	m.mu.Lock()
	m.markers = append(m.markers, mk)
	m.mu.Unlock()
	mk.m = m
	return mk
}

// BindPopup sets the popup's HTML content. The caller escapes it.
func (mk *Marker) BindPopup(html string) *Marker {
	mk.Popup = html
	return mk
}

func (mk *Marker) OpenPopup() *Marker {
	if mk.Popup != "" {
		mk.PopupOpen = true
	}
	return mk
}

// MarshalJSON renders the map as a GeoJSON FeatureCollection of points.
func (m *Map) MarshalJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, mk := range m.Markers() {
		f := geojson.NewFeature(orb.Point{mk.LatLng.Lng, mk.LatLng.Lat})
		if mk.Popup != "" {
			f.Properties["popup"] = mk.Popup
		}
		f.Properties["popupOpen"] = mk.PopupOpen
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
