package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"holder",
			"token",
			"acquired_at",
			"expires_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// The resource key doubles as the document id; uniqueness on
			// _id is what makes acquisition atomic.
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"holder": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"token": bson.M{
				"bsonType": "string",
			},

			"acquired_at": bson.M{
				"bsonType": "date",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
