package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tour",
			"user",
			"price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tour": bson.M{
				"bsonType": "objectId",
			},

			"user": bson.M{
				"bsonType": "objectId",
			},

			"price": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  0,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},

			"paid": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
