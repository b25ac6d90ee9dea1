package usecases

import (
	"github.com/dmarroquin/warehousewatch/internal/core/mapping"
	"github.com/dmarroquin/warehousewatch/internal/pkg/metrics"
)

// MappingService wraps the schema mapper with instrumentation for the
// mapping-inspector endpoint and the ingest command.
type MappingService struct{}

// NewMappingService creates a new MappingService.
func NewMappingService() *MappingService {
	return &MappingService{}
}

// Preview maps raw external JSON (object or array) and records mapping
// metrics. The mapping itself is pure; only counters are side effects.
func (s *MappingService) Preview(raw []byte) ([]mapping.Outcome, error) {
	outcomes, err := mapping.MapBatch(raw)
	if err != nil {
		metrics.MappingParseFailures.Inc()
		return nil, err
	}

	for _, o := range outcomes {
		metrics.RecordsMapped.Inc()
		for _, rep := range o.FieldReports {
			if !rep.Mapped && !rep.Generated {
				metrics.MappingFieldFailures.WithLabelValues(rep.Field).Inc()
			}
		}
	}
	return outcomes, nil
}
