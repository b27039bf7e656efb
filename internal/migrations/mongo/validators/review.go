package validators

import "go.mongodb.org/mongo-driver/bson"

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"review",
			"rating",
			"tour",
			"user",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"review": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"rating": bson.M{
				"bsonType": []string{"int", "long", "double"},
				"minimum":  1,
				"maximum":  5,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},

			"tour": bson.M{
				"bsonType": "objectId",
			},

			"user": bson.M{
				"bsonType": "objectId",
			},
		},
	},
}
