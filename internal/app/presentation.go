package app

import (
	"fmt"
	"html"
	"net/url"

	"restaurant_reviews/internal/adapters/leaflet"
	"restaurant_reviews/internal/domain"
)

const placeholderImage = "/img/placeholder.png"

// DetailURL is the relative link to the restaurant page.
func DetailURL(r domain.Restaurant) string {
	return "./restaurant.html?id=" + url.QueryEscape(r.ID.String())
}

// ImageURL points at the restaurant photo, or the placeholder when it has none.
func ImageURL(r domain.Restaurant) string {
	if r.Photograph == nil || *r.Photograph == "" {
		return placeholderImage
	}
	return fmt.Sprintf("/img/%s.jpg", url.PathEscape(r.Photograph.String()))
}

// PlaceMarker drops a marker for r on m with an already opened popup linking to the detail page.
func PlaceMarker(r domain.Restaurant, m *leaflet.Map) *leaflet.Marker {
	popup := fmt.Sprintf(`%s <br> <a href="%s">More info</a>`,
		html.EscapeString(r.Name), html.EscapeString(DetailURL(r)))
	return leaflet.NewMarker(r.LatLng).AddTo(m).BindPopup(popup).OpenPopup()
}
