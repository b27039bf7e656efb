package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   bson.M
	}{
		{
			name:   "plain equality",
			rawURL: "difficulty=easy",
			want:   bson.M{"difficulty": "easy"},
		},
		{
			name:   "numeric coercion",
			rawURL: "duration=5",
			want:   bson.M{"duration": float64(5)},
		},
		{
			name:   "boolean coercion",
			rawURL: "secretTour=true",
			want:   bson.M{"secretTour": true},
		},
		{
			name:   "comparison operator rewrite",
			rawURL: "duration%5Bgte%5D=5",
			want:   bson.M{"duration": bson.M{"$gte": float64(5)}},
		},
		{
			name:   "two operators on the same field",
			rawURL: "price%5Bgte%5D=400&price%5Blte%5D=1500",
			want:   bson.M{"price": bson.M{"$gte": float64(400), "$lte": float64(1500)}},
		},
		{
			name:   "reserved keys are not filters",
			rawURL: "page=2&sort=price&limit=10&fields=name&difficulty=easy",
			want:   bson.M{"difficulty": "easy"},
		},
		{
			name:   "operator injection is dropped",
			rawURL: "%24where=1&startLocation.type=Point",
			want:   bson.M{},
		},
		{
			name:   "unknown bracket operator is dropped",
			rawURL: "duration%5Bne%5D=5",
			want:   bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			assert.NoError(t, err)

			f := New(values).Filter()
			assert.Equal(t, tt.want, f.Criteria)
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   bson.D
	}{
		{
			name:   "default is newest first",
			rawURL: "",
			want:   bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:   "ascending and descending",
			rawURL: "sort=-ratingsAverage,price",
			want: bson.D{
				{Key: "ratingsAverage", Value: -1},
				{Key: "price", Value: 1},
			},
		},
		{
			name:   "unsafe field is skipped",
			rawURL: "sort=%24where,price",
			want:   bson.D{{Key: "price", Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			assert.NoError(t, err)

			f := New(values).Sort()
			assert.Equal(t, tt.want, f.SortSpec)
		})
	}
}

func TestLimitFields(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   bson.M
	}{
		{
			name:   "default hides version field",
			rawURL: "",
			want:   bson.M{"__v": 0},
		},
		{
			name:   "explicit allow list",
			rawURL: "fields=name,price,difficulty",
			want:   bson.M{"name": 1, "price": 1, "difficulty": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			assert.NoError(t, err)

			f := New(values).LimitFields()
			assert.Equal(t, tt.want, f.Projection)
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		rawURL    string
		wantSkip  int64
		wantLimit int64
	}{
		{
			name:      "defaults",
			rawURL:    "",
			wantSkip:  0,
			wantLimit: DefaultLimit,
		},
		{
			name:      "page math",
			rawURL:    "page=3&limit=10",
			wantSkip:  20,
			wantLimit: 10,
		},
		{
			name:      "invalid values fall back",
			rawURL:    "page=0&limit=abc",
			wantSkip:  0,
			wantLimit: DefaultLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			assert.NoError(t, err)

			f := New(values).Paginate()
			assert.Equal(t, tt.wantSkip, f.Skip)
			assert.Equal(t, tt.wantLimit, f.Limit)
		})
	}
}
