package migrations_test

import (
	"encoding/json"
	"fmt"
	"log"

	"invoicer/internal/invoice/migrations"
)

// Example upgrades a document saved before schema versions existed.
func Example() {
	var data any
	if err := json.Unmarshal([]byte(`{"fromName":"Acme","fromCountry":"Germany","customerCountry":""}`), &data); err != nil {
		log.Fatal(err)
	}

	detection := migrations.DetectSchemaVersion(data)
	fmt.Printf("v%d (%s): %s\n", detection.Version, detection.Confidence, detection.Reason)

	result, err := migrations.Migrate(data)
	if err != nil {
		log.Fatal(err)
	}

	doc, _, err := result.Current()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.MigrationPath)
	fmt.Println(doc.FromCountryCode, doc.ShowFromCountry, doc.ShowCustomerCountry)

	// Output:
	// v1 (inferred): has string fromCountry and no fromCountryCode field
	// [v1 → v2 v2 → v3]
	// DE true false
}

// ExampleGetMigrationSummary lists what a migration will change before it is
// confirmed.
func ExampleGetMigrationSummary() {
	data := map[string]any{"schemaVersion": 2.0}

	for _, line := range migrations.GetMigrationSummary(data) {
		fmt.Println("-", line)
	}

	// Output:
	// - Add purchase order number field (purchaseOrderNumber, empty)
}

// ExampleValidateCurrentSchema reports missing required fields.
func ExampleValidateCurrentSchema() {
	fmt.Println(migrations.ValidateCurrentSchema(map[string]any{"fromName": "X"}))
	fmt.Println(migrations.ValidateCurrentSchema(nil))

	// Output:
	// [invoiceNumber documentType locale numberLocale customerName lineItems currency]
	// [invalid data: expected a JSON object]
}
