package store

import "go.mongodb.org/mongo-driver/bson"

// AggregationMatch helps generate aggregation object for $match
func AggregationMatch(matchCondition bson.M) bson.D {
	match := bson.D{}
	for k, v := range matchCondition {
		match = append(match, bson.E{Key: k, Value: v})
	}

	return bson.D{
		bson.E{Key: "$match", Value: match},
	}
}

// AggregationProject helps generate aggregation object for $project
func AggregationProject(projectCondition bson.M) bson.D {
	project := bson.D{}
	for k, v := range projectCondition {
		project = append(project, bson.E{Key: k, Value: v})
	}

	return bson.D{
		bson.E{Key: "$project", Value: project},
	}
}

// AggregationLookup helps generate aggregation object for $lookup
func AggregationLookup(from, localField, foreignField, as string) bson.D {
	return bson.D{
		bson.E{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": foreignField,
			"as":           as,
		}},
	}
}

// AggregationGroup helps generate aggregation object for $group
func AggregationGroup(id interface{}, groupConditions bson.D) bson.D {
	group := bson.D{bson.E{Key: "_id", Value: id}}
	group = append(group, groupConditions...)

	return bson.D{
		bson.E{Key: "$group", Value: group},
	}
}
