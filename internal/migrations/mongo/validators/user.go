package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"password",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$",
			},

			"photo": bson.M{
				"bsonType": "string",
			},

			"role": bson.M{
				"enum": []string{"user", "guide", "lead-guide", "admin"},
			},

			"password": bson.M{
				"bsonType": "string",
			},

			"passwordChangedAt": bson.M{
				"bsonType": "date",
			},

			"passwordResetToken": bson.M{
				"bsonType": "string",
			},

			"passwordResetExpires": bson.M{
				"bsonType": "date",
			},

			"active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
