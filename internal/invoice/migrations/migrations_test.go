package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

func init() {
	logger.Silence()
}

func legacyDocument() schemas.Raw {
	return schemas.Raw{
		"fromCountry":     "USA",
		"customerCountry": "",
		"fromName":        "Acme",
		"customerName":    "Client",
		"lineItems":       []any{},
		"currency":        "USD",
		"invoiceNumber":   "1",
		"issueDate":       "2024-01-01",
		"dueDate":         "2024-02-01",
		"documentType":    "invoice",
		"layoutId":        "classic",
		"styleId":         "classic",
		"locale":          "en-US",
		"numberLocale":    "en-US",
		"paymentDetails":  "",
		"notes":           "",
	}
}

func TestDetectSchemaVersion(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		version    int
		confidence Confidence
		reason     string
	}{
		{"nil", nil, schemas.CurrentVersion, ConfidenceInferred, "invalid data"},
		{"number", 42.0, schemas.CurrentVersion, ConfidenceInferred, "invalid data"},
		{"string", "invoice", schemas.CurrentVersion, ConfidenceInferred, "invalid data"},
		{"array", []any{1.0}, schemas.CurrentVersion, ConfidenceInferred, "invalid data"},
		{"empty object", schemas.Raw{}, schemas.CurrentVersion, ConfidenceInferred, "could not determine version"},
		{"explicit", schemas.Raw{"schemaVersion": 2.0}, 2, ConfidenceExplicit, "explicit schemaVersion field: 2"},
		{"explicit wins over shape", schemas.Raw{"schemaVersion": 3.0, "fromCountry": "France"}, 3, ConfidenceExplicit, "explicit schemaVersion field: 3"},
		{"explicit out of range", schemas.Raw{"schemaVersion": 99.0}, 99, ConfidenceExplicit, "explicit schemaVersion field: 99"},
		{"explicit negative", schemas.Raw{"schemaVersion": -1.0}, -1, ConfidenceExplicit, "explicit schemaVersion field: -1"},
		{"non-numeric tag ignored", schemas.Raw{"schemaVersion": "2", "fromCountry": "France"}, 1, ConfidenceInferred,
			`has string fromCountry and no fromCountryCode field (ignored schemaVersion "2": not a usable version number)`},
		{"fractional tag ignored", schemas.Raw{"schemaVersion": 2.5}, schemas.CurrentVersion, ConfidenceInferred,
			"could not determine version (ignored schemaVersion 2.5: not a usable version number)"},
		{"huge tag ignored", schemas.Raw{"schemaVersion": 1e12, "fromCountryCode": "DE"}, 2, ConfidenceInferred,
			"has fromCountryCode field (ignored schemaVersion 1000000000000: not a usable version number)"},
		{"legacy country", schemas.Raw{"fromCountry": "France"}, 1, ConfidenceInferred, "has string fromCountry and no fromCountryCode field"},
		{"legacy empty country", schemas.Raw{"fromCountry": ""}, 1, ConfidenceInferred, "has string fromCountry and no fromCountryCode field"},
		{"legacy customer only", schemas.Raw{"customerCountry": "Spain"}, 1, ConfidenceInferred, "has string customerCountry and no customerCountryCode field"},
		{"non-string legacy country", schemas.Raw{"fromCountry": 7.0}, schemas.CurrentVersion, ConfidenceInferred, "could not determine version"},
		{"coded country", schemas.Raw{"fromCountryCode": "FR"}, 2, ConfidenceInferred, "has fromCountryCode field"},
		{"coded country wrong type", schemas.Raw{"fromCountryCode": 12.0}, 2, ConfidenceInferred, "has fromCountryCode field"},
		{"both country fields", schemas.Raw{"fromCountry": "France", "fromCountryCode": "FR"}, 2, ConfidenceInferred, "has fromCountryCode field"},
		{"coded customer only", schemas.Raw{"customerCountryCode": "FR"}, 2, ConfidenceInferred, "has customerCountryCode field"},
		{"v2 shape without po number", schemas.Raw{"fromCountryCode": "FR", "customerCountryCode": "DE"}, 2, ConfidenceInferred, "has fromCountryCode field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSchemaVersion(tt.data)
			assert.Equal(t, tt.version, got.Version)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestNeedsMigration(t *testing.T) {
	assert.True(t, NeedsMigration(legacyDocument()))
	assert.True(t, NeedsMigration(schemas.Raw{"schemaVersion": 2.0}))
	assert.False(t, NeedsMigration(schemas.Raw{"schemaVersion": 3.0}))
	assert.False(t, NeedsMigration(nil))
	assert.False(t, NeedsMigration(schemas.Raw{}))
}

func TestMigrateLegacyDocument(t *testing.T) {
	input := legacyDocument()

	assert.Equal(t, Detection{Version: 1, Confidence: ConfidenceInferred, Reason: "has string fromCountry and no fromCountryCode field"},
		DetectSchemaVersion(input))

	result, err := Migrate(input)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FromVersion)
	assert.Equal(t, 3, result.ToVersion)
	assert.Equal(t, []string{"v1 → v2", "v2 → v3"}, result.MigrationPath)
	assert.True(t, result.Migrated())

	out, ok := schemas.AsObject(result.Data)
	require.True(t, ok)
	assert.Equal(t, "US", out["fromCountryCode"])
	assert.Equal(t, true, out["showFromCountry"])
	assert.Equal(t, "US", out["customerCountryCode"])
	assert.Equal(t, false, out["showCustomerCountry"])
	assert.Equal(t, "", out["purchaseOrderNumber"])
	assert.Equal(t, 3.0, out["schemaVersion"])
	assert.NotContains(t, out, "fromCountry")
	assert.NotContains(t, out, "customerCountry")

	assert.Empty(t, ValidateCurrentSchema(result.Data))

	doc, warnings, err := result.Current()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Acme", doc.FromName)
	assert.Equal(t, schemas.CountryCode("US"), doc.FromCountryCode)
	assert.Equal(t, schemas.CurrentVersion, doc.SchemaVersion)
}

func TestMigrateDoesNotMutateInput(t *testing.T) {
	input := legacyDocument()
	input["lineItems"] = []any{map[string]any{"id": "1", "name": "Design", "quantity": 1.0, "price": 10.0}}
	before := legacyDocument()
	before["lineItems"] = []any{map[string]any{"id": "1", "name": "Design", "quantity": 1.0, "price": 10.0}}

	_, err := Migrate(input)
	require.NoError(t, err)
	assert.Equal(t, before, input)
}

func TestMigrateCurrentIsIdentity(t *testing.T) {
	inputs := []any{
		schemas.Raw{"schemaVersion": 3.0, "fromName": "Acme", "extra": "kept"},
		schemas.Raw{},
		nil,
		42.0,
		schemas.Raw{"schemaVersion": 7.0},
	}

	for _, input := range inputs {
		result, err := Migrate(input)
		require.NoError(t, err)
		assert.Equal(t, input, result.Data)
		assert.Empty(t, result.MigrationPath)
		assert.NotNil(t, result.MigrationPath)
		assert.False(t, result.Migrated())
		assert.Equal(t, schemas.CurrentVersion, result.ToVersion)
	}
}

func TestMigrateFromV2(t *testing.T) {
	input := schemas.Raw{
		"schemaVersion":   2.0,
		"fromName":        "Acme",
		"fromCountryCode": "FR",
		"showFromCountry": true,
		"shipToEnabled":   true,
		"shipToName":      "Warehouse",
	}

	result, err := Migrate(input)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FromVersion)
	assert.Equal(t, []string{"v2 → v3"}, result.MigrationPath)

	doc, _, err := result.Current()
	require.NoError(t, err)
	assert.Equal(t, schemas.CountryCode("FR"), doc.FromCountryCode)
	assert.True(t, doc.ShipToEnabled)
	assert.Equal(t, "Warehouse", doc.ShipToName)
	assert.Equal(t, "", doc.PurchaseOrderNumber)
}

func TestMigrateCarriesUnknownFields(t *testing.T) {
	input := legacyDocument()
	input["logo"] = "data:image/png;base64,AAAA"
	input["taxLabel"] = map[string]any{"en": "VAT"}

	result, err := Migrate(input)
	require.NoError(t, err)

	out, _ := schemas.AsObject(result.Data)
	assert.Equal(t, "data:image/png;base64,AAAA", out["logo"])
	assert.Equal(t, map[string]any{"en": "VAT"}, out["taxLabel"])
}

func TestMigrateToleratesMistypedFields(t *testing.T) {
	input := legacyDocument()
	input["taxRate"] = "twenty"

	result, err := Migrate(input)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "taxRate")
	out, _ := schemas.AsObject(result.Data)
	assert.Equal(t, 0.0, out["taxRate"])
	assert.Equal(t, "US", out["fromCountryCode"])
}

func TestMigrateReportsEveryMistypedField(t *testing.T) {
	input := legacyDocument()
	input["taxRate"] = "10"
	input["discountRate"] = "5"

	result, err := Migrate(input)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings, `v1 field "taxRate": expected float64, got string; value dropped`)
	assert.Contains(t, result.Warnings, `v1 field "discountRate": expected float64, got string; value dropped`)
	out, _ := schemas.AsObject(result.Data)
	assert.Equal(t, 0.0, out["taxRate"])
	assert.Equal(t, 0.0, out["discountRate"])
}

func TestMigrateKeepsLineItemsIntact(t *testing.T) {
	items := []any{
		map[string]any{"id": "a", "name": "x", "quantity": 1.0, "price": 2.0, "unit": "hrs", "taxable": true},
	}
	input := legacyDocument()
	input["lineItems"] = items
	input["notes"] = "Thanks"

	result, err := Migrate(input)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	out, _ := schemas.AsObject(result.Data)
	assert.Equal(t, items, out["lineItems"])
	item := out["lineItems"].([]any)[0].(map[string]any)
	assert.Equal(t, "hrs", item["unit"])
	assert.Equal(t, true, item["taxable"])
	assert.Equal(t, "Thanks", out["notes"])
	assert.Equal(t, "Acme", out["fromName"])
}

func TestMigrateZeroesMistypedLineItems(t *testing.T) {
	input := legacyDocument()
	input["lineItems"] = []any{
		map[string]any{"id": "a", "name": "x", "quantity": "one", "price": 2.0, "unit": "hrs"},
	}

	result, err := Migrate(input)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"lineItems.quantity"`)
	out, _ := schemas.AsObject(result.Data)
	item := out["lineItems"].([]any)[0].(map[string]any)
	assert.Equal(t, 0.0, item["quantity"])
	assert.Equal(t, 2.0, item["price"])
	assert.NotContains(t, item, "unit")
}

func TestMigrateKeepsExistingPurchaseOrderNumber(t *testing.T) {
	input := schemas.Raw{
		"schemaVersion":       2.0,
		"fromCountryCode":     "DE",
		"customerCountryCode": "FR",
		"purchaseOrderNumber": "PO-7",
	}

	assert.Equal(t, []string{"Add purchase order number field (purchaseOrderNumber, keeping existing 'PO-7')"},
		GetMigrationSummary(input))

	result, err := Migrate(input)
	require.NoError(t, err)
	out, _ := schemas.AsObject(result.Data)
	assert.Equal(t, "PO-7", out["purchaseOrderNumber"])

	input["purchaseOrderNumber"] = 7.0
	result, err = Migrate(input)
	require.NoError(t, err)
	out, _ = schemas.AsObject(result.Data)
	assert.Equal(t, "", out["purchaseOrderNumber"])
}

func TestMigrateFailsOnGap(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(NewStep(MigrateV1ToV2, describeV1ToV2))

	result, err := NewMigrator(registry).Migrate(legacyDocument())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingMigrator))

	var missing *MissingMigratorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2, missing.Version)
	assert.Contains(t, err.Error(), "v2")
}

func TestMigrateFailsOnExplicitVersionBelowChain(t *testing.T) {
	_, err := Migrate(schemas.Raw{"schemaVersion": 0.0})

	var missing *MissingMigratorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 0, missing.Version)
}

func TestMigrateV1ToV2(t *testing.T) {
	items := []models.LineItem{{ID: "1", Quantity: 1, Price: 10}}
	in := schemas.V1{
		FromName:        "Acme",
		FromCountry:     "France",
		CustomerCountry: "",
		LineItems:       items,
		TaxRate:         20,
	}

	out := MigrateV1ToV2(in)

	assert.Equal(t, 2, out.SchemaVersion)
	assert.Equal(t, schemas.CountryCode("FR"), out.FromCountryCode)
	assert.True(t, out.ShowFromCountry)
	assert.Equal(t, schemas.DefaultCountryCode, out.CustomerCountryCode)
	assert.False(t, out.ShowCustomerCountry)
	assert.True(t, out.ShowFromRegistrationID)
	assert.True(t, out.ShowCustomerRegistrationID)
	assert.Empty(t, out.FromRegistrationID)
	assert.False(t, out.ShipToEnabled)
	assert.Empty(t, out.ShipToCountryCode)
	assert.Equal(t, 20.0, out.TaxRate)
	assert.Equal(t, "France", in.FromCountry)

	// line items are passed through, not copied
	require.Len(t, out.LineItems, 1)
	assert.Same(t, &items[0], &out.LineItems[0])
}

func TestMigrateV1ToV2VisibilityFollowsLegacyValue(t *testing.T) {
	assert.True(t, MigrateV1ToV2(schemas.V1{FromCountry: "France"}).ShowFromCountry)
	assert.False(t, MigrateV1ToV2(schemas.V1{FromCountry: ""}).ShowFromCountry)
	assert.False(t, MigrateV1ToV2(schemas.V1{FromCountry: "   "}).ShowFromCountry)
	assert.True(t, MigrateV1ToV2(schemas.V1{CustomerCountry: "Atlantis"}).ShowCustomerCountry)
	assert.Equal(t, schemas.DefaultCountryCode, MigrateV1ToV2(schemas.V1{CustomerCountry: "Atlantis"}).CustomerCountryCode)
}

func TestMigrateV2ToV3(t *testing.T) {
	in := schemas.V2{
		SchemaVersion:          2,
		FromCountryCode:        "DE",
		ShowFromCountry:        true,
		FromRegistrationID:     "HRB 1234",
		ShowFromRegistrationID: false,
		ShipToEnabled:          true,
		ShipToCountryCode:      "AT",
	}

	out := MigrateV2ToV3(in)

	assert.Equal(t, 3, out.SchemaVersion)
	assert.Equal(t, "", out.PurchaseOrderNumber)
	assert.Equal(t, schemas.CountryCode("DE"), out.FromCountryCode)
	assert.Equal(t, "HRB 1234", out.FromRegistrationID)
	assert.False(t, out.ShowFromRegistrationID)
	assert.Equal(t, schemas.CountryCode("AT"), out.ShipToCountryCode)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []int{1, 2}, r.Versions())

	// the chain must reach the current version without gaps
	for v := 1; v < schemas.CurrentVersion; v++ {
		step, ok := r.Lookup(v)
		require.True(t, ok, "missing step from v%d", v)
		assert.Equal(t, v+1, step.To)
	}

	err := r.Register(NewStep(MigrateV1ToV2, describeV1ToV2))
	assert.ErrorIs(t, err, ErrDuplicateMigrator)

	err = r.Register(Step{From: 3, To: 5, Migrate: func(raw schemas.Raw) (schemas.Raw, []string, error) { return raw, nil, nil }})
	assert.ErrorIs(t, err, ErrInvalidStep)

	err = r.Register(Step{From: 3, To: 4})
	var migrationErr *MigrationError
	require.ErrorAs(t, err, &migrationErr)
	assert.Equal(t, "Register", migrationErr.Op)
}

func TestRegistryDefaultDescribe(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Step{From: 1, To: 2, Migrate: func(raw schemas.Raw) (schemas.Raw, []string, error) { return raw, nil, nil }})

	step, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, []string{"Upgrade document from v1 to v2"}, step.Describe(nil))
}

func TestStepErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.MustRegister(Step{From: 1, To: 2, Migrate: func(schemas.Raw) (schemas.Raw, []string, error) { return nil, nil, boom }})
	r.MustRegister(NewStep(MigrateV2ToV3, describeV2ToV3))

	_, err := NewMigrator(r).Migrate(legacyDocument())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var migrationErr *MigrationError
	require.ErrorAs(t, err, &migrationErr)
	assert.Equal(t, 1, migrationErr.From)
	assert.Equal(t, 2, migrationErr.To)
}

func TestGetMigrationSummary(t *testing.T) {
	lines := GetMigrationSummary(legacyDocument())

	assert.Equal(t, []string{
		"Convert country names to codes: fromCountry 'USA' → fromCountryCode US",
		"Convert country names to codes: customerCountry '' → customerCountryCode US (empty, the country will be hidden)",
		"Add country visibility toggles (showFromCountry, showCustomerCountry)",
		"Add optional ship-to address fields (disabled by default)",
		"Add registration ID fields for biller and customer (empty, visible)",
		"Add purchase order number field (purchaseOrderNumber, empty)",
	}, lines)

	assert.Equal(t, []string{"Add purchase order number field (purchaseOrderNumber, empty)"},
		GetMigrationSummary(schemas.Raw{"schemaVersion": 2.0}))
}

func TestGetMigrationSummaryNeverEmpty(t *testing.T) {
	for _, data := range []any{nil, schemas.Raw{}, schemas.Raw{"schemaVersion": 3.0}, schemas.Raw{"schemaVersion": 8.0}} {
		assert.Equal(t, []string{"No migration needed: document is already at schema v3"}, GetMigrationSummary(data))
	}

	lines := GetMigrationSummary(schemas.Raw{"schemaVersion": 0.0})
	assert.Equal(t, []string{"No migration is registered from v0; the document cannot be upgraded"}, lines)
}

func TestValidateCurrentSchema(t *testing.T) {
	missing := ValidateCurrentSchema(schemas.Raw{"fromName": "X"})
	assert.Equal(t, []string{"invoiceNumber", "documentType", "locale", "numberLocale", "customerName", "lineItems", "currency"}, missing)

	assert.Equal(t, []string{InvalidShape}, ValidateCurrentSchema(nil))
	assert.Equal(t, []string{InvalidShape}, ValidateCurrentSchema([]any{}))
	assert.Contains(t, ValidateCurrentSchema(schemas.Raw{"currency": nil}), "currency")

	complete := schemas.Raw{}
	for _, f := range RequiredFields {
		complete[f] = ""
	}
	assert.Empty(t, ValidateCurrentSchema(complete))
	assert.NotNil(t, ValidateCurrentSchema(complete))
}
