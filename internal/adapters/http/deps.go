package http

import (
	"github.com/nats-io/nats.go"

	"github.com/dmarroquin/warehousewatch/internal/adapters/postgres"
	"github.com/dmarroquin/warehousewatch/internal/adapters/valkey"
	"github.com/dmarroquin/warehousewatch/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Warehouses  *usecases.WarehouseService
	Mappings    *usecases.MappingService
	DataSources *usecases.DataSourceService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
