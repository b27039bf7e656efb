// Package query builds Mongo find criteria and options from raw query-string
// parameters. Building is pure construction; nothing touches the database
// until a store executes the resulting handle.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"trailbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// reserved control keys never become filter criteria.
var reserved = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

type Features struct {
	values     url.Values
	Criteria   bson.M
	SortSpec   bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

func New(values url.Values) *Features {
	return &Features{
		values:   values,
		Criteria: bson.M{},
	}
}

// Filter translates the remaining query parameters into criteria, rewriting
// embedded comparison operators (duration[gte]=5) into their $-prefixed form.
func (f *Features) Filter() *Features {
	for key, vals := range f.values {
		if _, ok := reserved[key]; ok || len(vals) == 0 {
			continue
		}

		field, op, hasOp := splitOperator(key)
		if !sanitizer.FilterKey(field) {
			continue
		}

		value := coerce(vals[0])
		if !hasOp {
			f.Criteria[field] = value
			continue
		}

		mongoOp, known := comparisonOps[op]
		if !known {
			continue
		}
		sub, _ := f.Criteria[field].(bson.M)
		if sub == nil {
			sub = bson.M{}
		}
		sub[mongoOp] = value
		f.Criteria[field] = sub
	}
	return f
}

// Sort parses the comma-separated sort list; a leading '-' means descending.
// Without a sort parameter results come back newest first.
func (f *Features) Sort() *Features {
	raw := f.values.Get("sort")
	if raw == "" {
		f.SortSpec = bson.D{{Key: "createdAt", Value: -1}}
		return f
	}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		if !sanitizer.FilterKey(field) {
			continue
		}
		f.SortSpec = append(f.SortSpec, bson.E{Key: field, Value: direction})
	}
	return f
}

// LimitFields builds the projection from the comma-separated allow-list.
// Without one all fields are returned except the internal version field.
func (f *Features) LimitFields() *Features {
	raw := f.values.Get("fields")
	if raw == "" {
		f.Projection = bson.M{"__v": 0}
		return f
	}

	projection := bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if !sanitizer.FilterKey(field) {
			continue
		}
		projection[field] = 1
	}
	f.Projection = projection
	return f
}

// Paginate computes skip/limit from page and limit. There is no upper bound on
// limit; clients asking for everything get everything.
func (f *Features) Paginate() *Features {
	page := positiveInt(f.values.Get("page"), DefaultPage)
	limit := positiveInt(f.values.Get("limit"), DefaultLimit)

	f.Skip = int64(page-1) * int64(limit)
	f.Limit = int64(limit)
	return f
}

// FindOptions materializes the accumulated sort, projection and pagination.
func (f *Features) FindOptions() *options.FindOptions {
	opts := options.Find()
	if len(f.SortSpec) > 0 {
		opts.SetSort(f.SortSpec)
	}
	if len(f.Projection) > 0 {
		opts.SetProjection(f.Projection)
	}
	if f.Limit > 0 {
		opts.SetSkip(f.Skip).SetLimit(f.Limit)
	}
	return opts
}

func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerce turns numeric-looking values into float64 so Mongo comparison
// operators behave numerically; everything else stays a string.
func coerce(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
