package validators

import "go.mongodb.org/mongo-driver/bson"

var TourValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"duration",
			"maxGroupSize",
			"difficulty",
			"price",
			"summary",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 40,
			},

			"slug": bson.M{
				"bsonType": "string",
			},

			"duration": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  1,
			},

			"maxGroupSize": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"difficulty": bson.M{
				"enum": []string{"easy", "medium", "difficult"},
			},

			"ratingsAverage": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  1,
				"maximum":  5,
			},

			"ratingsQuantity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"price": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
			},

			"priceDiscount": bson.M{
				"bsonType": []string{"int", "long", "double"},
			},

			"summary": bson.M{
				"bsonType": "string",
			},

			"secretTour": bson.M{
				"bsonType": "bool",
			},

			"startLocation": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"type": bson.M{
						"enum": []string{"Point"},
					},
					"coordinates": bson.M{
						"bsonType": "array",
					},
				},
			},

			"guides": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "objectId",
				},
			},
		},
	},
}
