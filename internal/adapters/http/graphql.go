package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	warehouseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Warehouse",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"address":          &graphql.Field{Type: graphql.String},
			"location":         &graphql.Field{Type: geoPointType},
			"status":           &graphql.Field{Type: graphql.String},
			"impact_statement": &graphql.Field{Type: graphql.String},
			"source":           &graphql.Field{Type: graphql.String},
			"distance_miles":   &graphql.Field{Type: graphql.Float},
		},
	})

	dataSourceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DataSource",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"agency":           &graphql.Field{Type: graphql.String},
			"category":         &graphql.Field{Type: graphql.String},
			"endpoint":         &graphql.Field{Type: graphql.String},
			"format":           &graphql.Field{Type: graphql.String},
			"update_frequency": &graphql.Field{Type: graphql.String},
			"requires_auth":    &graphql.Field{Type: graphql.Boolean},
			"coverage_area":    &graphql.Field{Type: graphql.String},
			"active":           &graphql.Field{Type: graphql.Boolean},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StatusCounts",
		Fields: graphql.Fields{
			"total":           &graphql.Field{Type: graphql.Int},
			"upcoming":        &graphql.Field{Type: graphql.Int},
			"in_construction": &graphql.Field{Type: graphql.Int},
			"operating":       &graphql.Field{Type: graphql.Int},
			"dormant":         &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"warehouses": &graphql.Field{
				Type:        graphql.NewList(warehouseType),
				Description: "List warehouse projects, optionally filtered by status",
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status := p.Args["status"].(string)
					return deps.Warehouses.List(p.Context, domain.Status(status))
				},
			},
			"warehousesNearby": &graphql.Field{
				Type:        graphql.NewList(warehouseType),
				Description: "Find warehouses near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: domain.MapViewRadiusMiles},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ref := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					radius := p.Args["radius"].(float64)
					return deps.Warehouses.Nearby(p.Context, ref, radius)
				},
			},
			"warehouse": &graphql.Field{
				Type:        warehouseType,
				Description: "Get a warehouse by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Warehouses.GetByID(p.Context, id)
				},
			},
			"warehouseStats": &graphql.Field{
				Type:        statsType,
				Description: "Warehouse counts per lifecycle status",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Warehouses.Stats(p.Context)
				},
			},
			"dataSources": &graphql.Field{
				Type:        graphql.NewList(dataSourceType),
				Description: "List public data sources, optionally filtered by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category := p.Args["category"].(string)
					return deps.DataSources.List(p.Context, category)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
