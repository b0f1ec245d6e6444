package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
)

func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

// in builds an $in clause, or a clause matching nothing for an empty list.
func in[T any](values []T) bson.M {
	if values == nil {
		values = []T{}
	}
	return bson.M{"$in": values}
}
