// Package ingest loads conflicted rosters and Open Payments records from
// CSV, NDJSON and JSON bundles into linkage types.
package ingest

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Category is an Open Payments dataset.
type Category string

const (
	General   Category = "general"
	Ownership Category = "ownership"
	Research  Category = "research"
)

// Categories lists every dataset in load order.
var Categories = []Category{General, Ownership, Research}

// ParseCategory parses a dataset name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown payment category %q", s)
}

// Normalized field names that CSV columns map onto. Numbered fields
// (credential_N, specialty_N, state_license_N) are built with numbered().
const (
	fieldProfileID    = "profile_id"
	fieldNPI          = "npi"
	fieldFirstName    = "first_name"
	fieldMiddleName   = "middle_name"
	fieldLastName     = "last_name"
	fieldCity         = "city"
	fieldStatePrimary = "state_primary"
	fieldProgramYear  = "program_year"
	fieldPaymentType  = "payment_type"

	prefixCredential   = "credential_"
	prefixSpecialty    = "specialty_"
	prefixStateLicense = "state_license_"
)

// Schema maps one category's CSV header names onto normalized fields.
type Schema struct {
	Category Category
	Columns  map[string]string
	fileCode string
}

func mergeColumns(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// numbered maps header+N to field+N for N in 1..n.
func numbered(header, field string, n int) map[string]string {
	out := make(map[string]string, n)
	for i := 1; i <= n; i++ {
		out[header+strconv.Itoa(i)] = field + strconv.Itoa(i)
	}
	return out
}

func identityColumns(prefix string) map[string]string {
	return map[string]string{
		prefix + "_Profile_ID":  fieldProfileID,
		prefix + "_NPI":         fieldNPI,
		prefix + "_First_Name":  fieldFirstName,
		prefix + "_Middle_Name": fieldMiddleName,
		prefix + "_Last_Name":   fieldLastName,
	}
}

func locationColumns() map[string]string {
	return map[string]string{
		"Recipient_City":  fieldCity,
		"Recipient_State": fieldStatePrimary,
		"Program_Year":    fieldProgramYear,
	}
}

func coveredRecipientColumns() map[string]string {
	return mergeColumns(
		identityColumns("Covered_Recipient"),
		locationColumns(),
		numbered("Covered_Recipient_Primary_Type_", prefixCredential, 6),
		numbered("Covered_Recipient_Specialty_", prefixSpecialty, 6),
		numbered("Covered_Recipient_License_State_code", prefixStateLicense, 5),
	)
}

var schemas = map[Category]Schema{
	General: {
		Category: General,
		fileCode: "GNRL",
		Columns: mergeColumns(
			coveredRecipientColumns(),
			map[string]string{"Nature_of_Payment_or_Transfer_of_Value": fieldPaymentType},
		),
	},
	Ownership: {
		Category: Ownership,
		fileCode: "OWNRSHP",
		Columns: mergeColumns(
			identityColumns("Physician"),
			locationColumns(),
			map[string]string{
				"Physician_Primary_Type": prefixCredential + "1",
				"Physician_Specialty":    prefixSpecialty + "1",
				"Terms_of_Interest":      fieldPaymentType,
			},
		),
	},
	Research: {
		Category: Research,
		fileCode: "RSRCH",
		Columns: mergeColumns(
			coveredRecipientColumns(),
			map[string]string{"Form_of_Payment_or_Transfer_of_Value": fieldPaymentType},
		),
	},
}

// SchemaFor returns the column schema for a category.
func SchemaFor(c Category) (Schema, error) {
	s, ok := schemas[c]
	if !ok {
		return Schema{}, fmt.Errorf("no schema for payment category %q", c)
	}
	return s, nil
}

// publicationSuffix is the release stamp on the current CMS detail files.
const publicationSuffix = "P06282024_06122024"

// CSVPath returns where the category's detail file for year lives under
// dir, following the CMS download layout:
// {year}/OP_DTL_{GNRL|OWNRSHP|RSRCH}_PGYR{year}_{publication}.csv
func (s Schema) CSVPath(dir string, year int) string {
	name := fmt.Sprintf("OP_DTL_%s_PGYR%d_%s.csv", s.fileCode, year, publicationSuffix)
	return path.Join(dir, strconv.Itoa(year), name)
}
