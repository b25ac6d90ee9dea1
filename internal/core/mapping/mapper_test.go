package mapping_test

import (
	"strings"
	"testing"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
	"github.com/dmarroquin/warehousewatch/internal/core/mapping"
)

func mapOne(t *testing.T, raw string) mapping.Outcome {
	t.Helper()
	outcomes, err := mapping.MapBatch([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	return outcomes[0]
}

func findReport(t *testing.T, o mapping.Outcome, field string) mapping.FieldReport {
	t.Helper()
	for _, r := range o.FieldReports {
		if r.Field == field {
			return r
		}
	}
	t.Fatalf("no field report for %s", field)
	return mapping.FieldReport{}
}

func TestMapRecord_AliasResolution(t *testing.T) {
	o := mapOne(t, `{"facility_id":"WH001","facility_name":"X","latitude":33.8,"longitude":-117.3,"status":"operational"}`)

	if o.Warehouse.ID != "WH001" {
		t.Errorf("expected id WH001, got %q", o.Warehouse.ID)
	}
	if got := findReport(t, o, mapping.FieldID).SourceField; got != "facility_id" {
		t.Errorf("expected id mapped from facility_id, got %q", got)
	}
	if o.Warehouse.Name != "X" {
		t.Errorf("expected name X, got %q", o.Warehouse.Name)
	}
	if o.Warehouse.Status != domain.StatusOperating {
		t.Errorf("expected status operating, got %q", o.Warehouse.Status)
	}
	if o.Warehouse.Location.Lat != 33.8 || o.Warehouse.Location.Lon != -117.3 {
		t.Errorf("unexpected coordinates: %+v", o.Warehouse.Location)
	}

	impact := findReport(t, o, mapping.FieldImpactStatement)
	if !impact.Generated || impact.Mapped {
		t.Errorf("impact statement should be flagged generated, got %+v", impact)
	}
	if o.Warehouse.ImpactStatement != "Impact data not available" {
		t.Errorf("expected placeholder impact statement, got %q", o.Warehouse.ImpactStatement)
	}

	// Only address is actually absent from this record.
	if len(o.MissingFields) != 1 || o.MissingFields[0] != mapping.FieldAddress {
		t.Errorf("expected only address missing, got %v", o.MissingFields)
	}
}

func TestMapRecord_ConstructionStatusAlias(t *testing.T) {
	o := mapOne(t, `{"id":"WH002","name":"Y","lat":33.8,"lng":-117.2,"construction_status":"under construction"}`)

	if o.Warehouse.Status != domain.StatusInConstruction {
		t.Errorf("expected in-construction, got %q", o.Warehouse.Status)
	}
	rep := findReport(t, o, mapping.FieldStatus)
	if rep.SourceField != "construction_status" {
		t.Errorf("expected status from construction_status, got %q", rep.SourceField)
	}
}

func TestMapRecord_UnrecognizedStatusFails(t *testing.T) {
	o := mapOne(t, `{"id":"WH003","name":"Z","lat":33.8,"lng":-117.2,"status":"mothballed"}`)

	if o.Warehouse.Status != "" {
		t.Errorf("unrecognized status must not be guessed, got %q", o.Warehouse.Status)
	}
	var found bool
	for _, f := range o.MissingFields {
		if f == mapping.FieldStatus {
			found = true
		}
	}
	if !found {
		t.Errorf("status should be listed missing, got %v", o.MissingFields)
	}
	rep := findReport(t, o, mapping.FieldStatus)
	if len(rep.Issues) == 0 {
		t.Error("expected an issue explaining the unrecognized status")
	}
}

func TestMapRecord_StatusKeywordPriority(t *testing.T) {
	cases := map[string]domain.Status{
		"Planned for 2027":      domain.StatusUpcoming,
		"proposed":              domain.StatusUpcoming,
		"active development":    domain.StatusInConstruction, // construction rules run before operating rules
		"currently operational": domain.StatusOperating,
		"OPEN":                  domain.StatusOperating,
		"permanently closed":    domain.StatusDormant,
		"inactive site":         domain.StatusDormant,
	}

	for raw, want := range cases {
		o := mapOne(t, `{"id":"w","status":"`+raw+`"}`)
		if o.Warehouse.Status != want {
			t.Errorf("status %q: expected %s, got %q", raw, want, o.Warehouse.Status)
		}
	}
}

func TestMapRecord_NumericStringCoercion(t *testing.T) {
	o := mapOne(t, `{"id":"w","lat":"33.8","lng":"-117.2"}`)

	if o.Warehouse.Location.Lat != 33.8 {
		t.Errorf("expected lat 33.8, got %v", o.Warehouse.Location.Lat)
	}
	rep := findReport(t, o, mapping.FieldLatitude)
	if rep.Transform != "parse string to number" {
		t.Errorf("expected parse transform note, got %q", rep.Transform)
	}
}

func TestMapRecord_NonNumericCoordinateFails(t *testing.T) {
	o := mapOne(t, `{"id":"w","lat":"north-ish","lng":-117.2}`)

	rep := findReport(t, o, mapping.FieldLatitude)
	if rep.Mapped {
		t.Error("non-numeric latitude should fail the field")
	}
	if len(rep.Issues) == 0 || !strings.Contains(rep.Issues[0], "north-ish") {
		t.Errorf("expected an issue naming the bad value, got %v", rep.Issues)
	}
	var found bool
	for _, f := range o.MissingFields {
		if f == mapping.FieldLatitude {
			found = true
		}
	}
	if !found {
		t.Errorf("latitude should be missing, got %v", o.MissingFields)
	}
}

func TestMapRecord_AddressConcatenation(t *testing.T) {
	o := mapOne(t, `{"id":"w","street_address":"123 Etiwanda Ave","city":"Mira Loma","state":"CA","zip_code":"91752"}`)

	want := "123 Etiwanda Ave, Mira Loma, CA, 91752"
	if o.Warehouse.Address != want {
		t.Errorf("expected %q, got %q", want, o.Warehouse.Address)
	}
}

func TestMapRecord_AddressPartialParts(t *testing.T) {
	o := mapOne(t, `{"id":"w","address":"456 Van Buren Blvd","zipcode":"92509"}`)

	if o.Warehouse.Address != "456 Van Buren Blvd, 92509" {
		t.Errorf("expected partial concat, got %q", o.Warehouse.Address)
	}
}

func TestMapRecord_ImpactFromSizeField(t *testing.T) {
	o := mapOne(t, `{"id":"w","size_sqft":1100000}`)

	if o.Warehouse.ImpactStatement != "1100000 sq ft facility" {
		t.Errorf("expected generated size impact, got %q", o.Warehouse.ImpactStatement)
	}
	rep := findReport(t, o, mapping.FieldImpactStatement)
	if !rep.Generated {
		t.Error("size-derived impact should be flagged generated")
	}

	// The size field was used, so it must not be reported unmapped.
	for _, f := range o.UnmappedSourceFields {
		if f == "size_sqft" {
			t.Error("size_sqft was consumed and should not be unmapped")
		}
	}
}

func TestMapRecord_ImpactDirectMapping(t *testing.T) {
	o := mapOne(t, `{"id":"w","impact_stat":"Adds 400 truck trips per day"}`)

	if o.Warehouse.ImpactStatement != "Adds 400 truck trips per day" {
		t.Errorf("unexpected impact statement: %q", o.Warehouse.ImpactStatement)
	}
	rep := findReport(t, o, mapping.FieldImpactStatement)
	if !rep.Mapped || rep.Generated {
		t.Errorf("direct impact mapping misreported: %+v", rep)
	}
}

func TestMapRecord_GeneratedIdentifier(t *testing.T) {
	o := mapOne(t, `{"name":"No ID Facility"}`)

	if o.Warehouse.ID == "" {
		t.Fatal("identifier must never be empty")
	}
	if !strings.HasPrefix(o.Warehouse.ID, "wh-") {
		t.Errorf("expected synthesized id, got %q", o.Warehouse.ID)
	}
	rep := findReport(t, o, mapping.FieldID)
	if !rep.Generated || len(rep.Issues) == 0 {
		t.Errorf("generated identifier must carry an issue flag: %+v", rep)
	}

	// Two syntheses must not collide.
	o2 := mapOne(t, `{"name":"Another"}`)
	if o2.Warehouse.ID == o.Warehouse.ID {
		t.Error("synthesized identifiers should be unique")
	}
}

func TestMapRecord_UnmappedSourceFieldsExactMatch(t *testing.T) {
	o := mapOne(t, `{"coord_lat":33.8,"coord_lng":-117.3,"lat_accuracy":"high","parcel":"APN-1"}`)

	unmapped := map[string]bool{}
	for _, f := range o.UnmappedSourceFields {
		unmapped[f] = true
	}
	// "lat_accuracy" contains "lat" as a substring but was never consumed.
	if !unmapped["lat_accuracy"] || !unmapped["parcel"] {
		t.Errorf("expected lat_accuracy and parcel unmapped, got %v", o.UnmappedSourceFields)
	}
	if unmapped["coord_lat"] || unmapped["coord_lng"] {
		t.Errorf("consumed fields reported unmapped: %v", o.UnmappedSourceFields)
	}
}

func TestMapRecord_AliasPriorityOrder(t *testing.T) {
	// "id" outranks "facility_id" even when both are present.
	o := mapOne(t, `{"id":"first","facility_id":"second"}`)
	if o.Warehouse.ID != "first" {
		t.Errorf("expected highest-priority alias to win, got %q", o.Warehouse.ID)
	}
	// The losing alias stays unconsumed.
	var found bool
	for _, f := range o.UnmappedSourceFields {
		if f == "facility_id" {
			found = true
		}
	}
	if !found {
		t.Errorf("facility_id should be unmapped, got %v", o.UnmappedSourceFields)
	}
}

func TestMapRecord_NumericIdentifierStringified(t *testing.T) {
	o := mapOne(t, `{"id":4217,"name":"Numeric ID"}`)

	if o.Warehouse.ID != "4217" {
		t.Errorf("expected stringified id 4217, got %q", o.Warehouse.ID)
	}
	rep := findReport(t, o, mapping.FieldID)
	if rep.Transform != "stringify" {
		t.Errorf("expected stringify transform, got %q", rep.Transform)
	}
}

func TestMapBatch_ArrayPreservesOrder(t *testing.T) {
	outcomes, err := mapping.MapBatch([]byte(`[{"id":"a"},{"id":"b"},{"id":"c"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, want := range []string{"a", "b", "c"} {
		if outcomes[i].Warehouse.ID != want {
			t.Errorf("outcome %d: expected id %q, got %q", i, want, outcomes[i].Warehouse.ID)
		}
	}
}

func TestMapBatch_MalformedInputFailsWhole(t *testing.T) {
	if _, err := mapping.MapBatch([]byte(`{"id": "trunc`)); err == nil {
		t.Error("expected parse error for truncated JSON")
	}
	if _, err := mapping.MapBatch([]byte(`"just a string"`)); err == nil {
		t.Error("expected parse error for non-object input")
	}
	if _, err := mapping.MapBatch([]byte(`[1, 2]`)); err == nil {
		t.Error("expected parse error for array of non-objects")
	}
}

func TestMapBatch_FieldFailuresDoNotAbortBatch(t *testing.T) {
	outcomes, err := mapping.MapBatch([]byte(`[{"id":"good","lat":33.8,"lng":-117.3},{"id":"bad","lat":"nope","status":"mothballed"}]`))
	if err != nil {
		t.Fatalf("batch should survive per-field failures: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if len(outcomes[1].MissingFields) == 0 {
		t.Error("second record should report missing fields")
	}
}

func TestMapRecord_BlankValuesSkipped(t *testing.T) {
	// A blank high-priority alias must fall through to the next one.
	o := mapOne(t, `{"name":"  ","facility_name":"Real Name"}`)
	if o.Warehouse.Name != "Real Name" {
		t.Errorf("expected fallthrough to facility_name, got %q", o.Warehouse.Name)
	}
	rep := findReport(t, o, mapping.FieldName)
	if len(rep.Consulted) != 2 {
		t.Errorf("both aliases should be recorded as consulted, got %v", rep.Consulted)
	}
}
