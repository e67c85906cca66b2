package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_reviews/internal/domain"
)

func TestDecodeRestaurant_KeepsRawAndAcceptsNumericIDs(t *testing.T) {
	raw := []byte(`{"id":3,"name":"Kang Ho Dong Baekjeong","cuisine_type":"Asian","neighborhood":"Manhattan","photograph":"3","latlng":{"lat":40.747,"lng":-73.985},"extra":true}`)

	r, err := domain.DecodeRestaurant(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Ident("3"), r.ID)
	require.NotNil(t, r.Photograph)
	assert.Equal(t, "3", r.Photograph.String())
	assert.Equal(t, 40.747, r.LatLng.Lat)
	assert.Equal(t, raw, r.RawJSON)

	got, err := r.Raw()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(got))
}

func TestDecodeRestaurant_MissingID(t *testing.T) {
	_, err := domain.DecodeRestaurant([]byte(`{"name":"x"}`))
	assert.Error(t, err)

	_, err = domain.DecodeRestaurant([]byte(`{"id":{"nested":1},"name":"x"}`))
	assert.Error(t, err)

	_, err = domain.DecodeRestaurant([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestDecodeRestaurant_UnexpectedFieldShapesAreKeptRaw(t *testing.T) {
	raw := []byte(`{"id":5,"name":"Katz's Delicatessen","cuisine_type":"American","neighborhood":"Manhattan",` +
		`"operating_hours":{"Monday":["5:30 pm - 11:00 pm"],"Tuesday":"8:00 am - 10:30 pm"},"latlng":"40.72,-73.98","photograph":{"src":"5"}}`)

	r, err := domain.DecodeRestaurant(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Ident("5"), r.ID)
	assert.Equal(t, "Katz's Delicatessen", r.Name)
	assert.Equal(t, "Manhattan", r.Neighborhood)
	assert.Equal(t, "8:00 am - 10:30 pm", r.OperatingHours["Tuesday"])
	assert.Equal(t, domain.LatLng{}, r.LatLng)
	assert.Equal(t, raw, r.RawJSON)
}

func TestIdent_MarshalKeepsNumbersNumeric(t *testing.T) {
	b, err := json.Marshal(struct {
		A domain.Ident `json:"a"`
		B domain.Ident `json:"b"`
	}{A: "12", B: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"abc"}`, string(b))
}

func TestIdent_LooseEquals(t *testing.T) {
	id := domain.Ident("3")
	assert.True(t, id.LooseEquals("3"))
	assert.True(t, id.LooseEquals(" 3"))
	assert.True(t, id.LooseEquals("3.0"))
	assert.False(t, id.LooseEquals("30"))
	assert.False(t, id.LooseEquals("three"))
	assert.True(t, domain.Ident("abc").LooseEquals("abc"))
}

func TestSortByID_NumericBeforeText(t *testing.T) {
	rs := []domain.Restaurant{{ID: "10"}, {ID: "b"}, {ID: "2"}, {ID: "a"}}
	domain.SortByID(rs)
	var ids []string
	for _, r := range rs {
		ids = append(ids, r.ID.String())
	}
	assert.Equal(t, []string{"2", "10", "a", "b"}, ids)
}

func TestReviewForm_Payload(t *testing.T) {
	p, err := domain.ReviewForm{RestaurantID: "1", Name: "Ana", Rating: 4, Comments: "Great"}.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"restaurant_id":1,"name":"Ana","rating":4,"comments":"Great"}`, string(p))
}
