package crud

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/model"
	"trailbook/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
)

func TestScopedMergesBaseFilter(t *testing.T) {
	store := NewStore[model.Tour](nil, "tour", StoreConfig{
		BaseFilter: bson.M{"secretTour": bson.M{"$ne": true}},
	})

	got := store.scoped(bson.M{"difficulty": "easy"})
	want := bson.M{
		"secretTour": bson.M{"$ne": true},
		"difficulty": "easy",
	}
	if len(got) != len(want) {
		t.Fatalf("scoped() = %v, want %v", got, want)
	}
	if got["difficulty"] != "easy" {
		t.Errorf("criteria lost in merge: %v", got)
	}
	if _, ok := got["secretTour"]; !ok {
		t.Errorf("base filter missing from merge: %v", got)
	}
}

func TestScopedBaseFilterWins(t *testing.T) {
	store := NewStore[model.User](nil, "user", StoreConfig{
		BaseFilter: bson.M{"active": bson.M{"$ne": false}},
	})

	got := store.scoped(bson.M{"active": false})
	if !reflect.DeepEqual(got["active"], bson.M{"$ne": false}) {
		t.Errorf("criteria overrode the base filter, got %v", got)
	}
}

func TestScopedClientQueryCannotWidenScope(t *testing.T) {
	tests := []struct {
		name       string
		rawQuery   string
		baseFilter bson.M
		field      string
	}{
		{
			name:       "secret tours stay hidden",
			rawQuery:   "secretTour=true",
			baseFilter: bson.M{"secretTour": bson.M{"$ne": true}},
			field:      "secretTour",
		},
		{
			name:       "deactivated users stay hidden",
			rawQuery:   "active=false&difficulty=easy",
			baseFilter: bson.M{"active": bson.M{"$ne": false}},
			field:      "active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("ParseQuery() error = %v", err)
			}
			criteria := query.New(values).Filter().Criteria

			store := NewStore[model.Tour](nil, "tour", StoreConfig{BaseFilter: tt.baseFilter})
			got := store.scoped(criteria)

			if !reflect.DeepEqual(got[tt.field], tt.baseFilter[tt.field]) {
				t.Errorf("filter for %s = %v, want the base filter %v", tt.field, got[tt.field], tt.baseFilter[tt.field])
			}
		})
	}
}

func TestScopedWithoutBaseFilter(t *testing.T) {
	store := NewStore[model.Tour](nil, "tour", StoreConfig{})

	criteria := bson.M{"difficulty": "easy"}
	if got := store.scoped(criteria); len(got) != 1 || got["difficulty"] != "easy" {
		t.Errorf("scoped() = %v, want untouched criteria", got)
	}
}

func TestObjectIDCastError(t *testing.T) {
	store := NewStore[model.Tour](nil, "tour", StoreConfig{})

	_, err := store.objectID("not-a-hex-id")
	var castErr *apperrors.CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("error = %v, want CastError", err)
	}
	if castErr.Field != "_id" || castErr.Value != "not-a-hex-id" {
		t.Errorf("CastError = %+v", castErr)
	}
}

func TestNotFoundIsOperational(t *testing.T) {
	store := NewStore[model.Tour](nil, "tour", StoreConfig{})

	err := store.notFound()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", appErr.StatusCode)
	}
	if !appErr.IsOperational {
		t.Errorf("missing documents are an operational condition")
	}
	if appErr.Message != "No tour found with that ID" {
		t.Errorf("Message = %q", appErr.Message)
	}
}
