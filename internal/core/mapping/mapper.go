// Package mapping translates warehouse-like records from arbitrary external
// schemas into the internal Warehouse shape, reporting per-field provenance.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// Internal field names, in report order.
const (
	FieldID              = "id"
	FieldName            = "name"
	FieldAddress         = "address"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
	FieldStatus          = "status"
	FieldImpactStatement = "impact_statement"
)

// fieldAliases maps each internal field to its candidate external field
// names, in priority order. First alias present with a usable value wins.
// Address and impact statement have extra generation rules handled in code.
var fieldAliases = map[string][]string{
	FieldID:              {"id", "facility_id", "warehouse_id", "project_id", "unique_id"},
	FieldName:            {"name", "facility_name", "warehouse_name", "project_name", "site_name"},
	FieldLatitude:        {"latitude", "lat", "y_coordinate", "coord_lat"},
	FieldLongitude:       {"longitude", "lng", "lon", "x_coordinate", "coord_lng"},
	FieldStatus:          {"status", "construction_status", "operational_status", "project_status"},
	FieldImpactStatement: {"impact_stat", "impactStat"},
}

// addressParts are consulted in order and joined with ", ". Each entry lists
// equivalent external names for one address component.
var addressParts = [][]string{
	{"street_address", "address"},
	{"city"},
	{"state"},
	{"zip_code", "zipcode"},
}

// sizeAliases feed the generated impact statement fallback.
var sizeAliases = []string{"size_sqft", "building_size"}

// statusRule maps a set of keywords to a lifecycle status via lower-cased
// substring match. Rules are evaluated top-down; keyword sets are not
// mutually exclusive, so the order here is load-bearing.
type statusRule struct {
	keywords []string
	status   domain.Status
}

var statusRules = []statusRule{
	{[]string{"upcoming", "planned", "proposed"}, domain.StatusUpcoming},
	{[]string{"construction", "building", "development"}, domain.StatusInConstruction},
	{[]string{"operating", "operational", "active", "open"}, domain.StatusOperating},
	{[]string{"dormant", "closed", "inactive"}, domain.StatusDormant},
}

// FieldReport is the audit entry for one internal field.
type FieldReport struct {
	Field       string   `json:"field"`
	Mapped      bool     `json:"mapped"`
	SourceField string   `json:"source_field,omitempty"`
	Consulted   []string `json:"consulted,omitempty"`
	Transform   string   `json:"transform,omitempty"`
	Generated   bool     `json:"generated,omitempty"`
	Issues      []string `json:"issues,omitempty"`
}

// Outcome is the result of mapping one external record.
type Outcome struct {
	Source               map[string]any   `json:"source"`
	Warehouse            domain.Warehouse `json:"warehouse"`
	FieldReports         []FieldReport    `json:"field_reports"`
	MissingFields        []string         `json:"missing_fields"`
	UnmappedSourceFields []string         `json:"unmapped_source_fields"`
}

// MapBatch parses raw JSON (a single object or an array of objects) and
// maps every record, preserving input order. Malformed JSON fails the whole
// batch; per-record field failures are captured in each Outcome and never
// abort the batch.
func MapBatch(raw []byte) ([]Outcome, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	switch t := v.(type) {
	case map[string]any:
		return []Outcome{MapRecord(t)}, nil
	case []any:
		outcomes := make([]Outcome, 0, len(t))
		for i, item := range t {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse input: element %d is not an object", i)
			}
			outcomes = append(outcomes, MapRecord(rec))
		}
		return outcomes, nil
	default:
		return nil, fmt.Errorf("parse input: expected an object or array of objects")
	}
}

// MapRecord maps a single external record into a partial Warehouse plus its
// audit trail. It is pure: no I/O, no shared state.
func MapRecord(src map[string]any) Outcome {
	m := &recordMapper{src: src, consumed: map[string]bool{}}

	m.mapIdentifier()
	m.mapName()
	m.mapAddress()
	m.mapCoordinate(FieldLatitude, fieldAliases[FieldLatitude], func(v float64) { m.warehouse.Location.Lat = v })
	m.mapCoordinate(FieldLongitude, fieldAliases[FieldLongitude], func(v float64) { m.warehouse.Location.Lon = v })
	m.mapStatus()
	m.mapImpactStatement()

	return Outcome{
		Source:               src,
		Warehouse:            m.warehouse,
		FieldReports:         m.reports,
		MissingFields:        m.missingFields(),
		UnmappedSourceFields: m.unmappedSourceFields(),
	}
}

type recordMapper struct {
	src       map[string]any
	warehouse domain.Warehouse
	reports   []FieldReport
	consumed  map[string]bool
}

func (r *recordMapper) report(rep FieldReport) {
	r.reports = append(r.reports, rep)
}

// lookup returns the first alias present in the source with a usable value,
// recording every alias consulted along the way.
func (r *recordMapper) lookup(aliases []string) (key string, value any, consulted []string, ok bool) {
	for _, a := range aliases {
		v, present := r.src[a]
		if !present {
			continue
		}
		consulted = append(consulted, a)
		if usable(v) {
			return a, v, consulted, true
		}
	}
	return "", nil, consulted, false
}

func (r *recordMapper) mapIdentifier() {
	key, v, consulted, ok := r.lookup(fieldAliases[FieldID])
	if ok {
		s, transform := stringify(v)
		r.warehouse.ID = s
		r.consumed[key] = true
		r.report(FieldReport{Field: FieldID, Mapped: true, SourceField: key, Consulted: consulted, Transform: transform})
		return
	}

	// Never leave the identifier empty: synthesize a time-based unique value
	// and surface it as an issue so the caller knows it is not from the data.
	r.warehouse.ID = generateID()
	r.report(FieldReport{
		Field:     FieldID,
		Generated: true,
		Consulted: consulted,
		Issues:    []string{"no identifier field found; generated a unique value"},
	})
}

func (r *recordMapper) mapName() {
	key, v, consulted, ok := r.lookup(fieldAliases[FieldName])
	if !ok {
		r.report(FieldReport{Field: FieldName, Consulted: consulted, Issues: []string{"no name field found"}})
		return
	}
	s, transform := stringify(v)
	r.warehouse.Name = s
	r.consumed[key] = true
	r.report(FieldReport{Field: FieldName, Mapped: true, SourceField: key, Consulted: consulted, Transform: transform})
}

// mapAddress concatenates whichever address components are present,
// joined with ", ".
func (r *recordMapper) mapAddress() {
	var parts []string
	var used []string
	var consulted []string

	for _, candidates := range addressParts {
		for _, c := range candidates {
			v, present := r.src[c]
			if !present {
				continue
			}
			consulted = append(consulted, c)
			if !usable(v) {
				continue
			}
			s, _ := stringify(v)
			parts = append(parts, s)
			used = append(used, c)
			break
		}
	}

	if len(parts) == 0 {
		r.report(FieldReport{Field: FieldAddress, Consulted: consulted, Issues: []string{"no address fields found"}})
		return
	}

	r.warehouse.Address = strings.Join(parts, ", ")
	for _, key := range used {
		r.consumed[key] = true
	}
	r.report(FieldReport{
		Field:       FieldAddress,
		Mapped:      true,
		SourceField: used[0],
		Consulted:   consulted,
		Transform:   "concatenated " + strings.Join(used, " + "),
	})
}

func (r *recordMapper) mapCoordinate(field string, aliases []string, assign func(float64)) {
	key, v, consulted, ok := r.lookup(aliases)
	if !ok {
		r.report(FieldReport{Field: field, Consulted: consulted, Issues: []string{"no " + field + " field found"}})
		return
	}

	f, transform, err := toFloat(v)
	if err != nil {
		// The alias was consulted but its value is unusable; the field fails.
		r.consumed[key] = true
		r.report(FieldReport{Field: field, SourceField: key, Consulted: consulted, Issues: []string{err.Error()}})
		return
	}

	assign(f)
	r.consumed[key] = true
	r.report(FieldReport{Field: field, Mapped: true, SourceField: key, Consulted: consulted, Transform: transform})
}

func (r *recordMapper) mapStatus() {
	key, v, consulted, ok := r.lookup(fieldAliases[FieldStatus])
	if !ok {
		r.report(FieldReport{Field: FieldStatus, Consulted: consulted, Issues: []string{"no status field found"}})
		return
	}

	s, _ := stringify(v)
	status, matched := classifyStatus(s)
	if !matched {
		// Never guess a default status; unknown strings fail the field.
		r.consumed[key] = true
		r.report(FieldReport{
			Field:       FieldStatus,
			SourceField: key,
			Consulted:   consulted,
			Issues:      []string{fmt.Sprintf("unrecognized status value %q", s)},
		})
		return
	}

	r.warehouse.Status = status
	r.consumed[key] = true
	r.report(FieldReport{
		Field:       FieldStatus,
		Mapped:      true,
		SourceField: key,
		Consulted:   consulted,
		Transform:   fmt.Sprintf("keyword match %q -> %s", s, status),
	})
}

func (r *recordMapper) mapImpactStatement() {
	key, v, consulted, ok := r.lookup(fieldAliases[FieldImpactStatement])
	if ok {
		s, transform := stringify(v)
		r.warehouse.ImpactStatement = s
		r.consumed[key] = true
		r.report(FieldReport{Field: FieldImpactStatement, Mapped: true, SourceField: key, Consulted: consulted, Transform: transform})
		return
	}

	// Generated fallback: derive from a size field when available, otherwise
	// a fixed placeholder. Flagged as generated, not a real mapping.
	for _, a := range sizeAliases {
		v, present := r.src[a]
		if !present || !usable(v) {
			continue
		}
		size, _ := stringify(v)
		r.warehouse.ImpactStatement = size + " sq ft facility"
		r.consumed[a] = true
		r.report(FieldReport{
			Field:     FieldImpactStatement,
			Generated: true,
			Consulted: append(consulted, a),
			Transform: "generated from " + a,
		})
		return
	}

	r.warehouse.ImpactStatement = "Impact data not available"
	r.report(FieldReport{
		Field:     FieldImpactStatement,
		Generated: true,
		Consulted: consulted,
		Transform: "generated placeholder",
	})
}

// missingFields lists internal fields with no final value: neither mapped
// nor generated.
func (r *recordMapper) missingFields() []string {
	var missing []string
	for _, rep := range r.reports {
		if !rep.Mapped && !rep.Generated {
			missing = append(missing, rep.Field)
		}
	}
	return missing
}

// unmappedSourceFields lists external keys no resolution consumed. Consumed
// keys are tracked by exact match, so "lat" and "coord_lat" never shadow
// each other.
func (r *recordMapper) unmappedSourceFields() []string {
	var unmapped []string
	for key := range r.src {
		if !r.consumed[key] {
			unmapped = append(unmapped, key)
		}
	}
	sort.Strings(unmapped)
	return unmapped
}

// classifyStatus matches a raw status string against the ordered keyword
// rules. Returns false when no keyword matches.
func classifyStatus(raw string) (domain.Status, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return "", false
	}
	for _, rule := range statusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.status, true
			}
		}
	}
	return "", false
}

// usable reports whether a source value can contribute to a mapping.
// Nil and blank strings are not usable.
func usable(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}

// stringify coerces a source value to a string, returning a transform note
// when the value was not already a string.
func stringify(v any) (string, string) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), ""
	case json.Number:
		return t.String(), "stringify"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), "stringify"
	case bool:
		return strconv.FormatBool(t), "stringify"
	default:
		return fmt.Sprintf("%v", t), "stringify"
	}
}

// toFloat coerces a source value to float64. Numbers pass through; numeric
// strings are parsed with a transform note; anything else fails.
func toFloat(v any) (float64, string, error) {
	switch t := v.(type) {
	case float64:
		return t, "", nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, "", fmt.Errorf("cannot parse %q as a number", t.String())
		}
		return f, "", nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, "", fmt.Errorf("cannot parse %q as a number", t)
		}
		return f, "parse string to number", nil
	default:
		return 0, "", fmt.Errorf("value %v is not numeric", v)
	}
}

// generateID produces a time-based identifier with a random suffix for
// records that carry no identifier of their own.
func generateID() string {
	return fmt.Sprintf("wh-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
